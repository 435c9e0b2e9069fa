package client

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// Commands provides command-line operations for the client
type Commands struct {
	client *Client
}

// NewCommands creates a new Commands instance
func NewCommands(client *Client) *Commands {
	return &Commands{
		client: client,
	}
}

// Create creates a short URL and displays the result
func (c *Commands) Create(ctx context.Context, longURL string) error {
	record, err := c.client.CreateURL(ctx, longURL)
	if err != nil {
		return err
	}

	fmt.Printf("Short URL created:\n")
	fmt.Printf("Code: %s\n", record.Code)
	fmt.Printf("Short URL: %s\n", record.ShortURL)
	fmt.Printf("Long URL: %s\n", record.LongURL)
	fmt.Printf("Created At: %s\n", record.CreatedAt.Format(time.RFC3339))
	fmt.Printf("Expires At: %s\n", record.ExpiresAt.Format(time.RFC3339))

	return nil
}

// Get retrieves and displays analytics for a short URL
func (c *Commands) Get(ctx context.Context, code string) error {
	record, err := c.client.GetAnalytics(ctx, code)
	if err != nil {
		if strings.Contains(err.Error(), "not found") {
			fmt.Printf("Short code '%s' not found\n", code)
			return nil
		}
		return err
	}

	fmt.Printf("URL Information:\n")
	fmt.Printf("Code: %s\n", record.Code)
	fmt.Printf("Long URL: %s\n", record.LongURL)
	fmt.Printf("Short URL: %s\n", record.ShortURL)
	fmt.Printf("Created At: %s\n", record.CreatedAt.Format(time.RFC3339))
	fmt.Printf("Expires At: %s\n", record.ExpiresAt.Format(time.RFC3339))
	fmt.Printf("Clicks: %d\n", record.Clicks)

	return nil
}

// Delete removes a short URL
func (c *Commands) Delete(ctx context.Context, code string) error {
	err := c.client.DeleteURL(ctx, code)
	if err != nil {
		if strings.Contains(err.Error(), "not found") {
			fmt.Printf("Short code '%s' not found\n", code)
			return nil
		}
		return err
	}

	fmt.Printf("Short URL '%s' deleted successfully\n", code)
	return nil
}

// List displays all short URLs in a table format
func (c *Commands) List(ctx context.Context) error {
	records, err := c.client.ListURLs(ctx)
	if err != nil {
		return err
	}

	if len(records) == 0 {
		fmt.Println("No URLs found")
		return nil
	}

	fmt.Printf("%-10s %-50s %-20s %-20s %s\n", "Code", "Long URL", "Created At", "Expires At", "Clicks")
	fmt.Println(strings.Repeat("-", 110))

	for _, record := range records {
		longURL := record.LongURL
		if len(longURL) > 50 {
			longURL = longURL[:47] + "..."
		}

		fmt.Printf("%-10s %-50s %-20s %-20s %d\n",
			record.Code,
			longURL,
			record.CreatedAt.Format("2006-01-02 15:04:05"),
			record.ExpiresAt.Format("2006-01-02 15:04:05"),
			record.Clicks,
		)
	}

	return nil
}
