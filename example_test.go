package gemini_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"

	gemini "github.com/bububa/gemini-go"
)

func ExampleURIBuilder() {
	var b gemini.URIBuilder
	b.WritePath("models")
	b.WriteQueryParam("pageSize", "10")
	b.WriteOptionalQueryParam("pageToken", "")
	b.WriteQueryParam("key", "secret")
	fmt.Println(b.String())
	// Output: models?pageSize=10&key=secret
}

func ExampleSafetySettingsFrom() {
	for _, s := range gemini.SafetySettingsFrom(gemini.BlockOnlyHigh) {
		fmt.Println(s.Category, s.Threshold)
	}
	// Output:
	// HARM_CATEGORY_HARASSMENT BLOCK_ONLY_HIGH
	// HARM_CATEGORY_HATE_SPEECH BLOCK_ONLY_HIGH
	// HARM_CATEGORY_SEXUALLY_EXPLICIT BLOCK_ONLY_HIGH
	// HARM_CATEGORY_DANGEROUS_CONTENT BLOCK_ONLY_HIGH
	// HARM_CATEGORY_CIVIC_INTEGRITY BLOCK_ONLY_HIGH
}

func ExampleRoute_String() {
	client, _ := gemini.New(gemini.WithAPIKey("secret"))
	fmt.Println(client.GenerateContent("gemini-1.5-flash"))
	// Output: https://generativelanguage.googleapis.com/v1beta/models/gemini-1.5-flash:generateContent?key=REDACTED
}

func ExampleChat_SendMessage() {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"candidates":[{"content":{"role":"model","parts":[{"text":"AI learns patterns from data."}]}}]}`)
	}))
	defer srv.Close()
	client, _ := gemini.New(gemini.WithAPIKey("secret"), gemini.WithBaseURL(srv.URL), gemini.WithHTTPClient(srv.Client()))
	defer srv.Client().CloseIdleConnections()

	chat := client.Chat("gemini-1.5-flash")
	resp, err := chat.SendMessage(context.Background(), "Explain how AI works")
	if err != nil {
		fmt.Println(err)
		return
	}
	fmt.Println(resp)
	fmt.Println(len(chat.History()))
	// Output:
	// AI learns patterns from data.
	// 2
}
