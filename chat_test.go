package gemini

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bububa/gemini-go/encoding"
)

// replies answers each generateContent call with the next body, repeating the last one.
func replies(t *testing.T, bodies ...string) (http.Handler, *atomic.Int32) {
	t.Helper()
	var calls atomic.Int32
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := int(calls.Add(1)) - 1
		if n >= len(bodies) {
			n = len(bodies) - 1
		}
		body := bodies[n]
		if len(body) > 0 && body[0] == '!' {
			w.WriteHeader(http.StatusInternalServerError)
			body = body[1:]
		}
		_, _ = w.Write([]byte(body))
	}), &calls
}

func TestChat_SendMessage(t *testing.T) {
	t.Parallel()
	var (
		mu   sync.Mutex
		seen []GenerateContentRequest
	)
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req GenerateContentRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		mu.Lock()
		seen = append(seen, req)
		mu.Unlock()
		_, _ = w.Write([]byte(textResponse("reply")))
	}))
	chat := c.Chat("gemini-1.5-flash").SystemInstruction("be nice")
	chat.Config().Temperature = new(float32)

	_, err := chat.SendMessage(context.Background(), "first")
	require.NoError(t, err)
	resp, err := chat.SendMessage(context.Background(), "second")
	require.NoError(t, err)
	assert.Equal(t, "reply", resp.Text())

	history := chat.History()
	require.Len(t, history, 4)
	assert.Equal(t, RoleUser, history[0].Role)
	assert.Equal(t, RoleModel, history[1].Role)
	assert.Equal(t, "second", history[2].Text())

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, seen, 2)
	assert.Len(t, seen[1].Contents, 3)
	require.NotNil(t, seen[1].SystemInstruction)
	assert.Equal(t, "be nice", seen[1].SystemInstruction.Text())
	require.NotNil(t, seen[1].GenerationConfig)
	assert.NotNil(t, seen[1].GenerationConfig.Temperature)
}

func TestChat_SendMessageRollback(t *testing.T) {
	t.Parallel()
	h, _ := replies(t,
		textResponse("ok"),
		`!{"error":{"code":500,"message":"boom","status":"INTERNAL"}}`,
	)
	chat := newTestClient(t, h).Chat("gemini-pro")
	_, err := chat.SendMessage(context.Background(), "one")
	require.NoError(t, err)

	_, err = chat.SendMessage(context.Background(), "two")
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Len(t, chat.History(), 2)
}

func TestChat_EmptyCandidates(t *testing.T) {
	t.Parallel()
	h, _ := replies(t, `{"promptFeedback":{"blockReason":"SAFETY"}}`)
	chat := newTestClient(t, h).Chat("gemini-pro")
	resp, err := chat.SendMessage(context.Background(), "bad")
	require.ErrorIs(t, err, ErrEmptyResponse)
	assert.True(t, resp.Blocked())
	assert.Empty(t, chat.History())
}

func TestChat_CandidateWithoutContent(t *testing.T) {
	t.Parallel()
	var (
		mu   sync.Mutex
		seen []string
	)
	blocked := `{"candidates":[{"finishReason":"SAFETY","index":0,"safetyRatings":[{"category":"HARM_CATEGORY_HARASSMENT","probability":"HIGH","blocked":true}]}]}`
	inner, _ := replies(t, blocked, textResponse("fine"))
	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(r.Body)
		assert.NoError(t, err)
		mu.Lock()
		seen = append(seen, string(body))
		mu.Unlock()
		inner.ServeHTTP(w, r)
	})
	chat := newTestClient(t, h).Chat("gemini-pro")

	resp, err := chat.SendMessage(context.Background(), "bad")
	require.ErrorIs(t, err, ErrEmptyResponse)
	assert.Contains(t, err.Error(), "SAFETY")
	require.NotNil(t, resp)
	assert.Equal(t, FinishReasonSafety, resp.Candidates[0].FinishReason)
	assert.Empty(t, chat.History())

	_, err = chat.SendMessage(context.Background(), "next")
	require.NoError(t, err)
	require.Len(t, chat.History(), 2)
	mu.Lock()
	defer mu.Unlock()
	require.Len(t, seen, 2)
	assert.NotContains(t, seen[1], `"parts":null`)
	assert.NotContains(t, seen[1], "bad")
}

type recipe struct {
	Name     string   `json:"name" validate:"required"`
	Servings int      `json:"servings" validate:"gte=1"`
	Steps    []string `json:"steps"`
}

func TestDecode(t *testing.T) {
	t.Parallel()
	h, calls := replies(t, textResponse("Sure! ```json\n{\"name\":\"Pancakes\",\"servings\":2,\"steps\":[\"mix\",\"fry\"]}\n```"))
	chat := newTestClient(t, h).Chat("gemini-pro").JSON()
	assert.Equal(t, ModeJSON, chat.Config().ResponseMimeType)

	got, err := Decode[recipe](context.Background(), chat, "a recipe")
	require.NoError(t, err)
	assert.Equal(t, recipe{Name: "Pancakes", Servings: 2, Steps: []string{"mix", "fry"}}, got)
	assert.EqualValues(t, 1, calls.Load())
	assert.Len(t, chat.History(), 2)
}

func TestDecode_RetriesInvalidReplies(t *testing.T) {
	t.Parallel()
	h, calls := replies(t,
		textResponse("not json at all"),
		textResponse(`{"name":"","servings":0}`),
		textResponse(`{"name":"Soup","servings":4}`),
	)
	chat := newTestClient(t, h, WithValidation()).Chat("gemini-pro").JSON()
	got, err := Decode[recipe](context.Background(), chat, "a recipe")
	require.NoError(t, err)
	assert.Equal(t, "Soup", got.Name)
	assert.EqualValues(t, 3, calls.Load())

	history := chat.History()
	require.Len(t, history, 2)
	assert.Equal(t, "a recipe", history[0].Text())
}

func TestDecode_MaxRetries(t *testing.T) {
	t.Parallel()
	h, calls := replies(t, textResponse("nope"))
	chat := newTestClient(t, h, WithMaxRetries(1)).Chat("gemini-pro").JSON()
	_, err := Decode[recipe](context.Background(), chat, "a recipe")
	require.ErrorIs(t, err, ErrMaxRetries)
	assert.EqualValues(t, 2, calls.Load())
	assert.Empty(t, chat.History())
}

func TestDecode_APIErrorIsNotRetried(t *testing.T) {
	t.Parallel()
	h, calls := replies(t, `!{"error":{"code":500,"message":"boom","status":"INTERNAL"}}`)
	chat := newTestClient(t, h).Chat("gemini-pro").JSON()
	_, err := Decode[recipe](context.Background(), chat, "a recipe")
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.EqualValues(t, 1, calls.Load())
	assert.Empty(t, chat.History())
}

func TestDecode_Example(t *testing.T) {
	t.Parallel()
	var prompt atomic.Value
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req GenerateContentRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		prompt.Store(req.Contents[len(req.Contents)-1].Text())
		_, _ = w.Write([]byte(textResponse(`{"name":"Tea","servings":1}`)))
	}))
	chat, err := ResponseSchemaFor[recipe](c.Chat("gemini-pro").JSON())
	require.NoError(t, err)
	require.NotNil(t, chat.Config().ResponseSchema)

	_, err = Decode[recipe](context.Background(), chat.WithExample(), "a recipe")
	require.NoError(t, err)
	assert.Contains(t, prompt.Load(), "a recipe")
	assert.Contains(t, prompt.Load(), "```json")
}

func TestChat_SaveLoad(t *testing.T) {
	t.Parallel()
	history := []Content{
		UserContent(TextPart("hello"), InlineDataPart("image/png", pngHeader)),
		ModelContent(TextPart("hi there")),
	}
	for _, ext := range []string{".json", ".yaml", ".yml", ".toml"} {
		t.Run(ext, func(t *testing.T) {
			t.Parallel()
			c, err := New(WithAPIKey(testKey))
			require.NoError(t, err)
			path := filepath.Join(t.TempDir(), "history"+ext)

			require.NoError(t, c.Chat("gemini-pro").SetHistory(history).Save(path))

			loaded := c.Chat("gemini-pro")
			require.NoError(t, loaded.LoadHistory(path))
			assert.Equal(t, history, loaded.History())
		})
	}
}

func TestChat_SaveUnsupported(t *testing.T) {
	t.Parallel()
	c, err := New(WithAPIKey(testKey))
	require.NoError(t, err)
	err = c.Chat("gemini-pro").Save(filepath.Join(t.TempDir(), "history.xml"))
	assert.ErrorIs(t, err, encoding.ErrUnsupportedFormat)
}
