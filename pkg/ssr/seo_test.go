package ssr

import (
	"reflect"
	"testing"

	"github.com/summon-dev/summon/pkg/render"
)

func TestSEOTags(t *testing.T) {
	tests := []struct {
		name string
		seo  SEOMetadata
		want []string
	}{
		{
			name: "empty",
			seo:  SEOMetadata{},
			want: nil,
		},
		{
			name: "basic",
			seo: SEOMetadata{
				Title:       "Summon & Co",
				Description: "Composable pages",
				Keywords:    []string{"ui", "ssr"},
				Canonical:   "https://summon.test/",
				Robots:      "index,follow",
			},
			want: []string{
				`<title>Summon &amp; Co</title>`,
				`<meta name="description" content="Composable pages">`,
				`<meta name="keywords" content="ui, ssr">`,
				`<meta name="robots" content="index,follow">`,
				`<link rel="canonical" href="https://summon.test/">`,
			},
		},
		{
			name: "open graph falls back to document fields",
			seo: SEOMetadata{
				Title:     "T",
				Canonical: "https://summon.test/a",
				OpenGraph: OpenGraph{Type: "article", Image: "https://summon.test/a.png"},
			},
			want: []string{
				`<title>T</title>`,
				`<link rel="canonical" href="https://summon.test/a">`,
				`<meta property="og:title" content="T">`,
				`<meta property="og:type" content="article">`,
				`<meta property="og:url" content="https://summon.test/a">`,
				`<meta property="og:image" content="https://summon.test/a.png">`,
			},
		},
		{
			name: "twitter card and custom tags",
			seo: SEOMetadata{
				Description: "D",
				Twitter:     TwitterCard{Site: "@summon"},
				Custom:      []render.MetaTag{{Name: "theme-color", Content: "#fff"}},
			},
			want: []string{
				`<meta name="description" content="D">`,
				`<meta name="twitter:card" content="summary">`,
				`<meta name="twitter:site" content="@summon">`,
				`<meta name="twitter:description" content="D">`,
				`<meta name="theme-color" content="#fff">`,
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.seo.Tags(); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Tags() =\n%v\nwant\n%v", got, tt.want)
			}
		})
	}
}
