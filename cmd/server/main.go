// Command server runs the content management backend: the webhook ingest
// API, operator bulk endpoints and the audit trail.
package main

import (
	"context"
	"log"

	"github.com/mlevkov/faqpress-backend/internal/app"
)

func main() {
	if err := app.Run(context.Background()); err != nil {
		log.Fatalf("application error: %v", err)
	}
}
