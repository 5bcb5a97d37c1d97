package htmlutil

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/require"
)

func TestCollapseSpace(t *testing.T) {
	testCases := []struct {
		input    string
		expected string
	}{
		{"123   Main\n  St", "123 Main St"},
		{"  4 Smith Road  ", "4 Smith Road"},
		{"\t\n", ""},
		{"already clean", "already clean"},
		{"", ""},
	}
	for _, test := range testCases {
		require.Equal(t, test.expected, CollapseSpace(test.input))
	}
}

func TestGetText(t *testing.T) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(
		`<h4>12 <b>Commercial</b> Street East</h4>`,
	))
	if err != nil {
		t.Fatal(err)
	}

	sel := doc.Find("h4")
	require.Len(t, sel.Nodes, 1)
	require.Equal(t, "12 Commercial Street East", GetText(sel.Nodes[0]))
	require.Equal(t, "12 Commercial Street East", FieldText(sel))
}
