// Package client is a Go HTTP client for the supportqa API.
//
//	c := client.New("http://localhost:8080", client.WithAPIKey(os.Getenv("SUPPORTQA_API_KEY")))
//	resp, err := c.Chat(ctx, "予約の変更はできますか？")
//	var apiErr *client.APIError
//	if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound {
//	    // knowledge base is empty
//	}
package client
