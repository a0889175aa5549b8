package mindpages_test

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/aretw0/mindpages"
	"github.com/aretw0/mindpages/internal/clocktest"
	"github.com/aretw0/mindpages/pkg/core"
	"github.com/aretw0/mindpages/pkg/export"
)

// Example_basic demonstrates how a draft reaches the store after the quiet period.
func Example_basic() {
	clock := clocktest.New(time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC))

	store, err := mindpages.NewStore(mindpages.WithClock(clock))
	if err != nil {
		log.Fatal(err)
	}
	sync := mindpages.NewSynchronizer(store, mindpages.WithClock(clock))

	ctx := context.Background()
	page, err := store.Create(ctx)
	if err != nil {
		log.Fatal(err)
	}
	if err := sync.BeginEditing(ctx, page); err != nil {
		log.Fatal(err)
	}
	_ = sync.SetTitle("Groceries")

	clock.Advance(time.Second)
	stored, _ := store.Get(ctx, page.ID)
	fmt.Printf("after 1s: %q\n", stored.Title)

	clock.Advance(time.Second)
	stored, _ = store.Get(ctx, page.ID)
	fmt.Printf("after 2s: %q\n", stored.Title)
	// Output:
	// after 1s: ""
	// after 2s: "Groceries"
}

// ExampleNewStore demonstrates the query helpers over the sample pages.
func ExampleNewStore() {
	store, err := mindpages.NewStore(mindpages.WithSamples(true))
	if err != nil {
		log.Fatal(err)
	}

	starred, err := store.Query(context.Background(), core.Query{StarredOnly: true})
	if err != nil {
		log.Fatal(err)
	}
	for _, p := range starred {
		fmt.Println(p.Title)
	}
	// Output:
	// Mathematics Chapter 5 Notes
}

// Example_export demonstrates plain text export of a page.
func Example_export() {
	p := mindpages.Page{
		Title: "Daily Reflection",
		Body:  "<p>Superposition is fascinating.</p>",
	}
	fmt.Print(export.PlainText(p))
	// Output:
	// # Daily Reflection
	//
	// Superposition is fascinating.
}
