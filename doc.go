// Package gemini is a small typed client for Google's Generative Language (Gemini) REST API.
//
// Every API operation is a Request value bound to a Client by a Route. A Route formats the
// versioned path, appends the API key as the key query parameter, sends one HTTP call and
// decodes either the typed model or an *APIError.
//
//	client, err := gemini.New(gemini.WithAPIKey(key))
//	resp, err := client.Chat("gemini-1.5-flash").SendMessage(ctx, "Explain how AI works")
//	fmt.Println(resp)
//
// Chat keeps a linear history and replays it on every call. Chat.JSON switches the chat to
// JSON replies which Decode maps onto a Go type.
package gemini
