package main

import (
	"errors"
	"fmt"
	"log"
	"os"

	"rakau/internal/content"
)

// Validates the embedded lesson content and reports every defect.
// Exits non-zero when any whiti or vocabulary file fails authoring checks.
func main() {
	registry, err := content.Load()
	if err != nil {
		var validationErr *content.ValidationError
		if errors.As(err, &validationErr) {
			fmt.Fprintf(os.Stderr, "Content validation failed with %d defect(s):\n", len(validationErr.Defects))
			for _, defect := range validationErr.Defects {
				fmt.Fprintf(os.Stderr, "  %s: %s\n", defect.Path, defect.Message)
			}
			os.Exit(1)
		}
		log.Fatalf("Failed to load content: %v", err)
	}

	whiti := registry.AllWhiti()
	exercises := 0
	for _, w := range whiti {
		exercises += len(w.Exercises)
	}

	fmt.Printf("Content OK: %d whiti, %d exercises, %d vocabulary items\n",
		len(whiti), exercises, len(registry.Vocabulary()))
}
