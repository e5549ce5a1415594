// Package recreate emits a best-effort structural recreation of an analyzed
// page: templated markup, styles, a script stub, and a setup guide. Fidelity
// is not a goal; failures here never abort an analysis.
package recreate

import (
	"fmt"
	"strings"
	"text/template"

	"github.com/Luigi-p-git/sitelens/internal/analysis"
	"github.com/Luigi-p-git/sitelens/internal/signals"
)

// Framework flavors for the generated scaffold.
const (
	FrameworkPlain = "plain"
	FrameworkReact = "react"
	FrameworkVue   = "vue"
)

type templateData struct {
	Title       string
	Framework   string
	HasHeader   bool
	HasHero     bool
	HasCards    bool
	HasForm     bool
	HasFooter   bool
	FormInputs  int
	Colors      []string
	Fonts       []string
	Layout      string
	ColorScheme string
}

var htmlTemplate = template.Must(template.New("html").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8">
  <meta name="viewport" content="width=device-width, initial-scale=1.0">
  <title>{{.Title}}</title>
  <link rel="stylesheet" href="styles.css">
</head>
<body class="scheme-{{.ColorScheme}}">
{{- if .HasHeader}}
  <header class="site-header">
    <nav class="site-nav"><a href="#" class="logo">{{.Title}}</a></nav>
  </header>
{{- end}}
{{- if .HasHero}}
  <section class="hero">
    <h1>{{.Title}}</h1>
    <p>Recreated hero section</p>
  </section>
{{- end}}
{{- if .HasCards}}
  <section class="cards">
    <article class="card"><h2>Card one</h2></article>
    <article class="card"><h2>Card two</h2></article>
    <article class="card"><h2>Card three</h2></article>
  </section>
{{- end}}
{{- if .HasForm}}
  <form class="contact-form">
{{- range $i := .InputSeq}}
    <input type="text" name="field-{{$i}}" placeholder="Field {{$i}}">
{{- end}}
    <button type="submit">Submit</button>
  </form>
{{- end}}
{{- if .HasFooter}}
  <footer class="site-footer"><p>&copy; {{.Title}}</p></footer>
{{- end}}
{{- if ne .Framework "plain"}}
  <div id="app"></div>
  <script src="app.js"></script>
{{- end}}
</body>
</html>
`))

var cssTemplate = template.Must(template.New("css").Parse(`:root {
{{- range $i, $c := .Colors}}
  --color-{{$i}}: {{$c}};
{{- end}}
}

body {
  margin: 0;
{{- if .Fonts}}
  font-family: {{index .Fonts 0}};
{{- else}}
  font-family: system-ui, sans-serif;
{{- end}}
{{- if .Colors}}
  background: var(--color-0);
{{- end}}
}

{{- if eq .Layout "grid"}}

.cards { display: grid; grid-template-columns: repeat(3, 1fr); gap: 1.5rem; }
{{- else}}

.cards { display: flex; gap: 1.5rem; flex-wrap: wrap; }
{{- end}}

.card { padding: 1.5rem; border-radius: 8px; background: rgba(255, 255, 255, 0.85); }
.hero { padding: 6rem 2rem; text-align: center; }
.site-header, .site-footer { padding: 1rem 2rem; }
`))

// Input carries the extractor outputs the synthesizer consumes.
type Input struct {
	Title      string
	Tech       analysis.TechStack
	Design     analysis.DesignTokens
	Components []analysis.Component
	Visual     analysis.VisualProfile
}

// FromBundle adapts a signals.Bundle into synthesizer input.
func FromBundle(bundle signals.Bundle) Input {
	title := bundle.SEO.Title
	if title == "" {
		title = "Recreated Page"
	}
	return Input{
		Title:      title,
		Tech:       bundle.Tech,
		Design:     bundle.Design,
		Components: bundle.Components,
		Visual:     bundle.Visual,
	}
}

// Synthesize renders the scaffold. The framework flavor follows the detected
// frontend stack; everything else is conditioned on mapped components.
func Synthesize(in Input) (analysis.Recreation, error) {
	data := buildTemplateData(in)

	var htmlOut strings.Builder
	if err := htmlTemplate.Execute(&htmlOut, data); err != nil {
		return analysis.Recreation{}, fmt.Errorf("render html scaffold: %w", err)
	}
	var cssOut strings.Builder
	if err := cssTemplate.Execute(&cssOut, data); err != nil {
		return analysis.Recreation{}, fmt.Errorf("render css scaffold: %w", err)
	}

	rec := analysis.Recreation{
		Framework: data.Framework,
		HTML:      htmlOut.String(),
		CSS:       cssOut.String(),
		Script:    scriptStub(data.Framework),
		Guide:     buildGuide(data),
	}
	return rec, nil
}

type renderData struct {
	templateData
	InputSeq []int
}

func buildTemplateData(in Input) renderData {
	kinds := make(map[string]int, len(in.Components))
	for _, c := range in.Components {
		kinds[c.Kind] = c.Count
	}
	data := renderData{
		templateData: templateData{
			Title:       in.Title,
			Framework:   pickFramework(in.Tech),
			HasHeader:   kinds["header"] > 0 || kinds["nav"] > 0,
			HasHero:     kinds["hero"] > 0,
			HasCards:    kinds["cards"] > 0,
			HasForm:     kinds["form"] > 0,
			HasFooter:   kinds["footer"] > 0,
			FormInputs:  kinds["form"],
			Colors:      in.Design.Colors,
			Fonts:       in.Design.Fonts,
			Layout:      in.Visual.Layout,
			ColorScheme: in.Visual.ColorScheme,
		},
	}
	for i := 1; i <= data.FormInputs; i++ {
		data.InputSeq = append(data.InputSeq, i)
	}
	return data
}

func pickFramework(tech analysis.TechStack) string {
	for _, label := range tech.Frontend {
		switch label {
		case "React", "Next.js":
			return FrameworkReact
		case "Vue.js", "Nuxt":
			return FrameworkVue
		}
	}
	return FrameworkPlain
}

func scriptStub(framework string) string {
	switch framework {
	case FrameworkReact:
		return "import { createRoot } from 'react-dom/client';\n\n" +
			"const root = createRoot(document.getElementById('app'));\n" +
			"root.render(<App />);\n"
	case FrameworkVue:
		return "import { createApp } from 'vue';\nimport App from './App.vue';\n\n" +
			"createApp(App).mount('#app');\n"
	default:
		return ""
	}
}

func buildGuide(data renderData) string {
	var b strings.Builder
	b.WriteString("Setup guide\n===========\n\n")
	switch data.Framework {
	case FrameworkReact:
		b.WriteString("1. Scaffold with `npm create vite@latest -- --template react`.\n")
		b.WriteString("2. Drop the generated markup into your root component.\n")
	case FrameworkVue:
		b.WriteString("1. Scaffold with `npm create vue@latest`.\n")
		b.WriteString("2. Drop the generated markup into App.vue.\n")
	default:
		b.WriteString("1. Save the generated files next to each other and open index.html.\n")
	}
	b.WriteString("3. Link styles.css and adjust the color variables to taste.\n")
	if data.HasForm {
		fmt.Fprintf(&b, "\nThe page includes a form scaffold with %d input field(s); wire its submit handler to your backend.\n", data.FormInputs)
	}
	if data.HasCards {
		b.WriteString("The card grid is a placeholder; replace the three sample cards with real content.\n")
	}
	return b.String()
}
