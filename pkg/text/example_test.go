package text_test

import (
	"context"
	"fmt"
	"strings"

	"github.com/walteh/sanitize/pkg/rules"
	"github.com/walteh/sanitize/pkg/text"
)

func ExampleEngine_ReplaceText() {
	// Create an engine with the built-in rules
	engine := text.NewEngine(nil)

	// Apply the rules
	result, err := engine.ReplaceText(context.Background(), strings.NewReader("Done! ✅ Next → step"))
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}

	fmt.Printf("Modified: %s\n", result.ModifiedContent)
	fmt.Printf("Changes: %d\n", result.ReplacementCount)
	fmt.Printf("Was Modified: %v\n", result.WasModified)

	// Output:
	// Modified: Done! [CORRECT] Next -> step
	// Changes: 2
	// Was Modified: true
}

func ExampleEngine_Transform_customTable() {
	table, err := rules.NewTable(
		rules.Literal("✅", "(done)"),
		rules.Category(rules.CategoryNonASCII, "_"),
	)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}

	result := text.NewEngine(table).Transform([]byte("✅ café"))
	fmt.Println(string(result.ModifiedContent))

	// Output:
	// (done) caf_
}
