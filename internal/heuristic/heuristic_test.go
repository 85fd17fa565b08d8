package heuristic

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHardcodedPaths(t *testing.T) {
	text := strings.Join([]string{
		`data <- read.csv("/Users/me/data.csv")`,
		`df = pd.read_csv('C:\\data\\x.csv')`,
		`url <- "https://example.org/data.csv"`,
		`tmp <- "/tmp/scratch.csv"`,
		`rel <- here::here("data", "x.csv")`,
		`f = open('D:/out.txt')`,
	}, "\n")
	assert.Equal(t, []int{1, 2, 6}, HardcodedPaths(text))
}

func TestWildcardImports(t *testing.T) {
	text := strings.Join([]string{
		`"""Module."""`,
		`import numpy as np`,
		`from os import path`,
		`    from pylab import *`,
		`from . import *`,
		`# from x import *`,
	}, "\n")
	assert.Equal(t, []int{4, 5}, WildcardImports(text))
}

func TestNeedsSeed(t *testing.T) {
	tests := []struct {
		name string
		text string
		lang Lang
		want bool
	}{
		{"r random unseeded", "x <- rnorm(10)", LangR, true},
		{"r seeded", "set.seed(20240101)\nx <- rnorm(10)", LangR, false},
		{"r deterministic", "x <- c(1, 2, 3)", LangR, false},
		{"python numpy unseeded", "x = np.random.normal(size=3)", LangPython, true},
		{"python seeded", "np.random.seed(1)\nx = np.random.normal()", LangPython, false},
		{"python sklearn random_state", "from sklearn import svm\nsvm.SVC(random_state=0)", LangPython, false},
		{"python shuffle", "shuffle(items)", LangPython, true},
		{"unknown lang", "rnorm", Lang("julia"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NeedsSeed(tt.text, tt.lang))
		})
	}
}

func TestMissingDocstring(t *testing.T) {
	assert.False(t, MissingDocstring("\n\n\"\"\"Analysis.\"\"\"\nimport os"))
	assert.False(t, MissingDocstring("'''Analysis.'''"))
	assert.False(t, MissingDocstring("#!/usr/bin/env python3\nimport os"))
	assert.True(t, MissingDocstring("import os\n\"\"\"late\"\"\""))
	assert.True(t, MissingDocstring(""))
}

func TestMissingHeaderComment(t *testing.T) {
	assert.False(t, MissingHeaderComment("\n  # Analysis of wages\nlibrary(dplyr)"))
	assert.False(t, MissingHeaderComment("#' @title Wages"))
	assert.True(t, MissingHeaderComment("library(dplyr)\n# late comment"))
	assert.True(t, MissingHeaderComment("  \n"))
}

func TestMissingCharts(t *testing.T) {
	src := "p1 <- plotly::plot_ly(x)\np2 <- plotly::plot_ly(y)\np3 <- plotly::plot_ly(z)"
	html := `<div class="plotly html-widget htmlwidget"></div>`
	assert.Equal(t, 3, ChartCount(src))
	assert.Equal(t, 1, RenderedWidgets(html))
	assert.Equal(t, 2, MissingCharts(src, html))
	assert.Equal(t, 0, MissingCharts(src, strings.Repeat(html, 4)))
	assert.Equal(t, 0, MissingCharts("no charts", ""))
}
