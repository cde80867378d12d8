package render

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/a-h/templ"
)

// node is the shape of a gomponents node.
type node interface {
	Render(w io.Writer) error
}

// Write renders component to w. component must be a templ.Component or
// implement Render(io.Writer) error like gomponents.Node.
func Write(ctx context.Context, w io.Writer, component any) error {
	switch c := component.(type) {
	case templ.Component:
		return c.Render(ctx, w)
	case node:
		return c.Render(w)
	default:
		return fmt.Errorf("unsupported component type: %T", component)
	}
}

// Bytes renders component into a byte slice.
func Bytes(ctx context.Context, component any) ([]byte, error) {
	var buf bytes.Buffer
	if err := Write(ctx, &buf, component); err != nil {
		return nil, fmt.Errorf("failed to render component: %w", err)
	}
	return buf.Bytes(), nil
}

// WritePage renders component and writes it as an HTML response. Nothing is
// written when rendering fails.
func WritePage(w http.ResponseWriter, r *http.Request, status int, component any) error {
	body, err := Bytes(r.Context(), component)
	if err != nil {
		return err
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, err = w.Write(body)
	return err
}
