package pages

import (
	"context"
	"fmt"
	"io"
	"strings"

	twmerge "github.com/Oudwins/tailwind-merge-go"
	"github.com/a-h/templ"

	"github.com/cristianadrielbraun/qrlogo/web/components"
)

const (
	cardClass   = "mx-auto max-w-xl space-y-6 rounded-lg border bg-white p-6 shadow-sm"
	labelClass  = "block text-sm font-medium text-gray-700"
	inputClass  = "mt-1 block w-full rounded-md border px-3 py-2"
	buttonClass = "rounded-md bg-gray-900 px-4 py-2 text-sm font-medium text-white"
)

// HomePage renders the editor: text input, logo controls, size slider and
// the current image.
func HomePage(v components.HomeView) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var b strings.Builder
		e := templ.EscapeString

		b.WriteString(`<!DOCTYPE html><html lang="en"><head><meta charset="utf-8">`)
		b.WriteString(`<meta name="viewport" content="width=device-width, initial-scale=1">`)
		b.WriteString(`<title>QR code with logo</title></head><body class="bg-gray-50 py-10">`)
		b.WriteString(`<main class="` + cardClass + `">`)
		b.WriteString(`<h1 class="text-xl font-semibold">QR code with logo</h1>`)

		b.WriteString(`<form id="encode-form" action="/api/encode" method="post" class="space-y-3">`)
		b.WriteString(`<label class="` + labelClass + `" for="text">Text</label>`)
		b.WriteString(`<textarea id="text" name="text" rows="3" class="` + inputClass + `">` + e(v.Text) + `</textarea>`)
		b.WriteString(`<label class="` + labelClass + `" for="ecc">Error correction</label>`)
		b.WriteString(`<select id="ecc" name="ecc" class="` + inputClass + `">`)
		for _, opt := range components.Levels {
			sel := ""
			if opt.Value == v.ECC {
				sel = " selected"
			}
			b.WriteString(`<option value="` + e(opt.Value) + `"` + sel + `>` + e(opt.Label) + `</option>`)
		}
		b.WriteString(`</select>`)
		b.WriteString(`<button type="submit" class="` + buttonClass + `">Generate</button></form>`)

		b.WriteString(`<form id="logo-form" action="/api/logo" method="post" enctype="multipart/form-data" class="space-y-3">`)
		b.WriteString(`<label class="` + labelClass + `" for="logo">Logo</label>`)
		b.WriteString(`<input id="logo" name="logo" type="file" accept="image/*" class="` + inputClass + `">`)
		removeClass := twmerge.Merge(buttonClass, "bg-white text-gray-900 border")
		b.WriteString(`<button id="remove-logo" type="button" class="` + e(removeClass) + `"` + hiddenUnless(v.HasLogo) + `>Remove logo</button></form>`)

		b.WriteString(`<form id="size-form" action="/api/logo/size" method="post">`)
		b.WriteString(`<label class="` + labelClass + `" for="percent">Logo size <span id="percent-label">` + fmt.Sprintf("%d%%", v.Percent) + `</span></label>`)
		b.WriteString(fmt.Sprintf(`<input id="percent" name="percent" type="range" min="10" max="40" step="1" value="%d" class="w-full">`, v.Percent))
		b.WriteString(`</form>`)

		b.WriteString(`<p id="error" role="alert" class="text-sm text-red-700" hidden></p>`)

		b.WriteString(`<figure id="result" class="space-y-2 text-center"` + hiddenUnless(v.Rendered) + `>`)
		src := ""
		if v.ImageURL != "" {
			src = ` src="` + e(v.ImageURL) + `"`
		}
		b.WriteString(`<img id="qr" alt="QR code" class="mx-auto"` + src + `>`)
		version := ""
		if v.Rendered {
			version = fmt.Sprintf("Version %d (%d×%d modules)", v.Version, v.Size, v.Size)
		}
		b.WriteString(`<figcaption id="version" class="text-sm text-gray-600">` + e(version) + `</figcaption>`)
		b.WriteString(`<a id="download" href="/api/image.png?download=1" class="` + buttonClass + ` inline-block">Download</a>`)
		b.WriteString(`</figure></main>`)
		b.WriteString(script)
		b.WriteString(`</body></html>`)

		_, err := io.WriteString(w, b.String())
		return err
	})
}

// hiddenUnless returns the hidden attribute, with its leading space, when
// visible is false.
func hiddenUnless(visible bool) string {
	if visible {
		return ""
	}
	return " hidden"
}

// script drives the forms through fetch so the page never reloads. Every
// endpoint answers with the session state as JSON.
const script = `<script>
(function () {
  const $ = (id) => document.getElementById(id);
  function show(state) {
    $('error').textContent = '';
    $('error').hidden = true;
    if (state.rendered) {
      $('qr').src = '/api/image.png?t=' + Date.now();
      $('version').textContent = 'Version ' + state.version + ' (' + state.size + '×' + state.size + ' modules)';
      $('result').hidden = false;
    }
    $('percent').value = state.percent;
    $('percent-label').textContent = state.percent + '%';
    $('remove-logo').hidden = !state.has_logo;
  }
  function fail(msg) {
    $('error').textContent = msg;
    $('error').hidden = false;
  }
  async function send(method, url, body) {
    const res = await fetch(url, { method: method, body: body });
    const data = await res.json();
    if (data.state) show(data.state);
    if (!res.ok) fail(data.error || res.statusText);
  }
  $('encode-form').addEventListener('submit', (ev) => {
    ev.preventDefault();
    send('POST', '/api/encode', new FormData(ev.target));
  });
  $('logo').addEventListener('change', () => {
    if ($('logo').files.length) send('POST', '/api/logo', new FormData($('logo-form')));
  });
  $('remove-logo').addEventListener('click', () => {
    $('logo').value = '';
    send('DELETE', '/api/logo');
  });
  $('percent').addEventListener('input', () => {
    $('percent-label').textContent = $('percent').value + '%';
    send('POST', '/api/logo/size', new FormData($('size-form')));
  });
})();
</script>`
