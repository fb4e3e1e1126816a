package spatula

import (
	"testing"
)

// TestResponseOK tests the status range check.
func TestResponseOK(t *testing.T) {
	t.Parallel()

	tests := []struct {
		status int
		want   bool
	}{
		{200, true},
		{204, true},
		{299, true},
		{199, false},
		{301, false},
		{404, false},
		{500, false},
	}
	for _, tt := range tests {
		resp := &Response{StatusCode: tt.status}
		if got := resp.OK(); got != tt.want {
			t.Errorf("OK() for %d: expected %v, got %v", tt.status, tt.want, got)
		}
	}
}

// TestResponseText tests charset-aware text decoding.
func TestResponseText(t *testing.T) {
	t.Parallel()

	t.Run("utf-8 body passes through", func(t *testing.T) {
		t.Parallel()

		resp := &Response{
			ContentType: "text/html; charset=utf-8",
			Body:        []byte("caf\xc3\xa9"),
		}
		if got := resp.Text(); got != "café" {
			t.Errorf("expected %q, got %q", "café", got)
		}
	})

	t.Run("latin-1 body is transcoded", func(t *testing.T) {
		t.Parallel()

		resp := &Response{
			ContentType: "text/html; charset=iso-8859-1",
			Body:        []byte("caf\xe9"),
		}
		if got := resp.Text(); got != "café" {
			t.Errorf("expected %q, got %q", "café", got)
		}
	})

	t.Run("missing content type falls back gracefully", func(t *testing.T) {
		t.Parallel()

		resp := &Response{Body: []byte("plain ascii")}
		if got := resp.Text(); got != "plain ascii" {
			t.Errorf("expected %q, got %q", "plain ascii", got)
		}
	})
}

// TestResponseJSON tests JSON body decoding.
func TestResponseJSON(t *testing.T) {
	t.Parallel()

	t.Run("decode into a struct", func(t *testing.T) {
		t.Parallel()

		resp := &Response{Body: []byte(`{"name":"widget","count":3}`)}
		var got struct {
			Name  string `json:"name"`
			Count int    `json:"count"`
		}
		if err := resp.JSON(&got); err != nil {
			t.Fatalf("decode failed: %v", err)
		}
		if got.Name != "widget" || got.Count != 3 {
			t.Errorf("unexpected value: %+v", got)
		}
	})

	t.Run("decode untyped", func(t *testing.T) {
		t.Parallel()

		resp := &Response{Body: []byte(`[1, 2]`)}
		v, err := resp.DecodeJSON()
		if err != nil {
			t.Fatalf("decode failed: %v", err)
		}
		list, ok := v.([]any)
		if !ok || len(list) != 2 {
			t.Errorf("expected a 2-element array, got %#v", v)
		}
	})

	t.Run("malformed body reports the error", func(t *testing.T) {
		t.Parallel()

		resp := &Response{Body: []byte(`{broken`)}
		if _, err := resp.DecodeJSON(); err == nil {
			t.Error("expected a decode error")
		}
	})
}
