package spatula

import (
	"errors"
	"testing"

	"github.com/antchfx/xmlquery"
)

const peopleXML = `<?xml version="1.0"?>
<roster>
  <person><name>Alice</name></person>
  <person><name>Bob</name></person>
  <person><name>Carol</name></person>
</roster>`

// TestXPathItems tests the XPath item source.
func TestXPathItems(t *testing.T) {
	t.Parallel()

	parse := func(t *testing.T) any {
		t.Helper()
		view, err := XMLParser{}.Parse(nil, &Response{Body: []byte(peopleXML)})
		if err != nil {
			t.Fatalf("parse failed: %v", err)
		}
		return view
	}

	t.Run("yields each match in document order", func(t *testing.T) {
		t.Parallel()

		seq, err := XPath{Expr: "//person/name"}.Items(parse(t))
		if err != nil {
			t.Fatalf("items failed: %v", err)
		}
		var got []string
		for item, err := range seq {
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			got = append(got, item.(*xmlquery.Node).InnerText())
		}
		want := []string{"Alice", "Bob", "Carol"}
		if len(got) != len(want) {
			t.Fatalf("expected %d matches, got %v", len(want), got)
		}
		for i := range want {
			if got[i] != want[i] {
				t.Errorf("match %d: expected %q, got %q", i, want[i], got[i])
			}
		}
	})

	t.Run("empty expression is an incomplete definition", func(t *testing.T) {
		t.Parallel()

		_, err := XPath{}.Items(parse(t))
		var contract *ContractError
		if !errors.As(err, &contract) {
			t.Fatalf("expected ContractError, got %v", err)
		}
	})

	t.Run("wrong view type is an error", func(t *testing.T) {
		t.Parallel()

		if _, err := (XPath{Expr: "//x"}).Items([]byte("nope")); err == nil {
			t.Error("expected an error for a non-XML view")
		}
	})

	t.Run("match count bounds", func(t *testing.T) {
		t.Parallel()

		if _, err := (XPath{Expr: "//person", MinItems: 5}).Items(parse(t)); err == nil {
			t.Error("expected error below MinItems")
		}
		if _, err := (XPath{Expr: "//person", MaxItems: 2}).Items(parse(t)); err == nil {
			t.Error("expected error above MaxItems")
		}
	})

	t.Run("invalid expression is an error", func(t *testing.T) {
		t.Parallel()

		if _, err := (XPath{Expr: "//["}).Items(parse(t)); err == nil {
			t.Error("expected an error for a malformed expression")
		}
	})
}
