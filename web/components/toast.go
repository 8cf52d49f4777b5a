package components

import (
	"context"
	"io"
	"strconv"

	twmerge "github.com/Oudwins/tailwind-merge-go"
	"github.com/a-h/templ"
)

type Variant string

const (
	VariantSuccess Variant = "success"
	VariantError   Variant = "error"
	VariantWarning Variant = "warning"
	VariantInfo    Variant = "info"
)

// ParseVariant maps form values onto a Variant; unknown values are success.
func ParseVariant(s string) Variant {
	switch s {
	case "error", "destructive":
		return VariantError
	case "warning":
		return VariantWarning
	case "info":
		return VariantInfo
	default:
		return VariantSuccess
	}
}

type ToastProps struct {
	Title       string
	Description string
	Variant     Variant
	// Duration is in milliseconds; zero keeps the toast until dismissed.
	Duration    int
	Dismissible bool
	Class       string
}

var variantClasses = map[Variant]string{
	VariantSuccess: "border-green-600 bg-green-50 text-green-900",
	VariantError:   "border-red-600 bg-red-50 text-red-900",
	VariantWarning: "border-yellow-500 bg-yellow-50 text-yellow-900",
	VariantInfo:    "border-blue-600 bg-blue-50 text-blue-900",
}

// Toast renders a small notification meant to be swapped in by HTMX.
func Toast(p ToastProps) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		v := p.Variant
		if _, ok := variantClasses[v]; !ok {
			v = VariantSuccess
		}
		class := twmerge.Merge(
			"fixed bottom-4 right-4 z-50 max-w-sm rounded-md border px-4 py-3 shadow",
			variantClasses[v],
			p.Class,
		)

		if _, err := io.WriteString(w, `<div role="status" data-toast data-variant="`+string(v)+
			`" data-duration="`+strconv.Itoa(p.Duration)+`" class="`+templ.EscapeString(class)+`">`); err != nil {
			return err
		}
		if p.Title != "" {
			if _, err := io.WriteString(w, `<p class="font-semibold">`+templ.EscapeString(p.Title)+`</p>`); err != nil {
				return err
			}
		}
		if p.Description != "" {
			if _, err := io.WriteString(w, `<p class="text-sm">`+templ.EscapeString(p.Description)+`</p>`); err != nil {
				return err
			}
		}
		if p.Dismissible {
			if _, err := io.WriteString(w, `<button type="button" class="absolute right-2 top-1 text-sm" onclick="this.parentElement.remove()">&times;</button>`); err != nil {
				return err
			}
		}
		_, err := io.WriteString(w, `</div>`)
		return err
	})
}
