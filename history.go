package gemini

// History is the linear list of turns a Chat replays on every call.
type History struct {
	list []Content
}

func NewHistory(cap int) *History {
	if cap > 0 {
		return &History{
			list: make([]Content, 0, cap),
		}
	}
	return new(History)
}

func (h *History) Set(list []Content) {
	h.list = make([]Content, len(list))
	copy(h.list, list)
}

func (h *History) Add(v ...Content) {
	h.list = append(h.list, v...)
}

// List returns the turns. The slice must not be modified.
func (h *History) List() []Content {
	return h.list
}

func (h *History) Len() int {
	return len(h.list)
}

// Truncate drops every turn from index n on.
func (h *History) Truncate(n int) {
	if n < 0 {
		n = 0
	}
	if n < len(h.list) {
		clear(h.list[n:])
		h.list = h.list[:n]
	}
}

func (h *History) Reset() {
	h.list = nil
}

// Last returns the most recent turn.
func (h *History) Last() (Content, bool) {
	if len(h.list) == 0 {
		return Content{}, false
	}
	return h.list[len(h.list)-1], true
}
