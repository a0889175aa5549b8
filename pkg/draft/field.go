package draft

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/aretw0/mindpages/pkg/core"
)

// Field names an editable page field.
type Field string

const (
	FieldTitle   Field = "title"
	FieldBody    Field = "body"
	FieldTags    Field = "tags"
	FieldStarred Field = "starred"
	FieldFolder  Field = "folder"
)

// Fields lists every tracked field in commit-comparison order.
var Fields = []Field{FieldTitle, FieldBody, FieldTags, FieldStarred, FieldFolder}

// Limits on draft values.
const (
	MaxTitleLength  = 200
	MaxFolderLength = 64
	MaxTagLength    = 40
)

// Errors returned at the field boundary.
var (
	ErrUnknownField = errors.New("unknown field")
	ErrInvalidField = errors.New("invalid field value")
)

var validate = validator.New()

// rules holds the validator tags applied to each constrained field.
var rules = map[Field]string{
	FieldTitle:  fmt.Sprintf("max=%d", MaxTitleLength),
	FieldTags:   fmt.Sprintf("dive,max=%d", MaxTagLength),
	FieldFolder: fmt.Sprintf("max=%d", MaxFolderLength),
}

// ValidatePage checks the editable fields of p against the same limits
// OnFieldChange enforces. Tags are normalized first, as they are in a draft.
func ValidatePage(p core.Page) error {
	f := fieldsOf(p)
	f.Folder = strings.TrimSpace(f.Folder)
	for _, c := range []struct {
		field Field
		value any
	}{
		{FieldTitle, f.Title},
		{FieldTags, f.Tags},
		{FieldFolder, f.Folder},
	} {
		if err := validate.Var(c.value, rules[c.field]); err != nil {
			return valueError(c.field, err)
		}
	}
	return nil
}

// fields is the editable subset of a page.
type fields struct {
	Title   string
	Body    string
	Tags    []string
	Starred bool
	Folder  string
}

func fieldsOf(p core.Page) fields {
	return fields{
		Title:   p.Title,
		Body:    p.Body,
		Tags:    core.NormalizeTags(p.Tags),
		Starred: p.Starred,
		Folder:  p.Folder,
	}
}

func (f fields) clone() fields {
	c := f
	c.Tags = append([]string{}, f.Tags...)
	return c
}

// apply copies the fields onto base, substituting the default title.
func (f fields) apply(base core.Page) core.Page {
	p := base.Clone()
	p.Title = f.Title
	if strings.TrimSpace(p.Title) == "" {
		p.Title = core.DefaultTitle
	}
	p.Body = f.Body
	p.Tags = append([]string{}, f.Tags...)
	p.Starred = f.Starred
	p.Folder = f.Folder
	return p
}

// diff returns the fields whose values differ. Tags compare as sets.
func (f fields) diff(other fields) []Field {
	var changed []Field
	if f.Title != other.Title {
		changed = append(changed, FieldTitle)
	}
	if f.Body != other.Body {
		changed = append(changed, FieldBody)
	}
	if !core.SameTags(f.Tags, other.Tags) {
		changed = append(changed, FieldTags)
	}
	if f.Starred != other.Starred {
		changed = append(changed, FieldStarred)
	}
	if f.Folder != other.Folder {
		changed = append(changed, FieldFolder)
	}
	return changed
}

// set validates value for field and stores it.
func (f *fields) set(field Field, value any) error {
	switch field {
	case FieldTitle:
		s, ok := value.(string)
		if !ok {
			return typeError(field, "string", value)
		}
		if err := validate.Var(s, rules[FieldTitle]); err != nil {
			return valueError(field, err)
		}
		f.Title = s
	case FieldBody:
		s, ok := value.(string)
		if !ok {
			return typeError(field, "string", value)
		}
		f.Body = s
	case FieldTags:
		tags, ok := value.([]string)
		if !ok {
			return typeError(field, "[]string", value)
		}
		tags = core.NormalizeTags(tags)
		if err := validate.Var(tags, rules[FieldTags]); err != nil {
			return valueError(field, err)
		}
		f.Tags = tags
	case FieldStarred:
		b, ok := value.(bool)
		if !ok {
			return typeError(field, "bool", value)
		}
		f.Starred = b
	case FieldFolder:
		s, ok := value.(string)
		if !ok {
			return typeError(field, "string", value)
		}
		s = strings.TrimSpace(s)
		if err := validate.Var(s, rules[FieldFolder]); err != nil {
			return valueError(field, err)
		}
		f.Folder = s
	default:
		return fmt.Errorf("%w: %q", ErrUnknownField, field)
	}
	return nil
}

func typeError(field Field, want string, got any) error {
	return fmt.Errorf("%w: %s must be %s, got %T", ErrInvalidField, field, want, got)
}

func valueError(field Field, err error) error {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		return fmt.Errorf("%w: %s failed %q", ErrInvalidField, field, verrs[0].Tag())
	}
	return fmt.Errorf("%w: %s: %v", ErrInvalidField, field, err)
}
