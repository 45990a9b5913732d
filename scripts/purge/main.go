package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	httpmiddleware "github.com/eksdesign/stand-platform/internal/http/middleware"
)

var purgeKinds = map[string]bool{"contacts": true, "quotes": true}

func main() {
	if len(os.Args) < 3 || !purgeKinds[os.Args[1]] {
		fmt.Println("Usage: go run ./scripts/purge <contacts|quotes> <id> [id...]")
		fmt.Println("Example: go run ./scripts/purge contacts 3f1c2b9e-7a41-4c55-9a0e-1d2f3e4a5b6c")
		os.Exit(1)
	}
	kind := os.Args[1]

	secret := os.Getenv("ADMIN_JWT_SECRET")
	if secret == "" {
		fmt.Println("Error: ADMIN_JWT_SECRET environment variable not set")
		os.Exit(1)
	}

	apiURL := os.Getenv("API_URL")
	if apiURL == "" {
		apiURL = "http://localhost:8080"
	}

	token, err := adminToken(secret, time.Now())
	if err != nil {
		fmt.Printf("Error signing token: %v\n", err)
		os.Exit(1)
	}

	client := &http.Client{Timeout: 30 * time.Second}
	failed := 0
	for _, id := range os.Args[2:] {
		fmt.Printf("Deleting %s/%s...\n", kind, id)
		if err := deleteRecord(context.Background(), client, apiURL, token, kind, id); err != nil {
			fmt.Printf("Error: %v\n", err)
			failed++
			continue
		}
		fmt.Println("Deleted.")
	}
	if failed > 0 {
		os.Exit(1)
	}
}

func adminToken(secret string, now time.Time) (string, error) {
	claims := httpmiddleware.AdminClaims{
		Email: "purge-script@localhost",
		Role:  httpmiddleware.RoleAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "purge-script",
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}

func deleteRecord(ctx context.Context, client *http.Client, apiURL, token, kind, id string) error {
	endpoint := fmt.Sprintf("%s/admin/%s/%s", strings.TrimRight(apiURL, "/"), kind, url.PathEscape(id))
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, endpoint, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNoContent {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("HTTP %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	return nil
}
