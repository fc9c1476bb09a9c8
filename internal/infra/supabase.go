// README: Supabase client initialization (hosted storage for rendered proposals).
package infra

import (
    "fmt"

    "github.com/supabase-community/supabase-go"
)

func NewSupabase(url, apiKey string) (*supabase.Client, error) {
    if url == "" || apiKey == "" {
        return nil, fmt.Errorf("supabase url and api key are required")
    }
    client, err := supabase.NewClient(url, apiKey, nil)
    if err != nil {
        return nil, fmt.Errorf("failed to create supabase client: %w", err)
    }
    return client, nil
}
