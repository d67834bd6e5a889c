package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractMentions(t *testing.T) {
	extractor := NewSymbolExtractor()

	tests := []struct {
		name     string
		text     string
		expected []string
	}{
		{
			name:     "simple mention",
			text:     "@chris you around?",
			expected: []string{"chris"},
		},
		{
			name:     "underscores and digits allowed",
			text:     "@foo_bar_BAZ123 hello",
			expected: []string{"foo_bar_BAZ123"},
		},
		{
			name:     "mention stops at plus",
			text:     "@bob+loblaw",
			expected: []string{"bob"},
		},
		{
			name:     "mention stops at dash",
			text:     "@bob-loblaw",
			expected: []string{"bob"},
		},
		{
			name:     "bare at sign",
			text:     "@",
			expected: nil,
		},
		{
			name:     "at sign followed by non word chars",
			text:     "@+1 @-there-",
			expected: nil,
		},
		{
			name:     "multiple mentions kept in order with duplicates",
			text:     "@bob @john @bob",
			expected: []string{"bob", "john", "bob"},
		},
		{
			name:     "no mentions",
			text:     "resistance is futile",
			expected: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, extractor.Mentions(tt.text))
		})
	}
}

func TestExtractEmoticons(t *testing.T) {
	extractor := NewSymbolExtractor()

	tests := []struct {
		name     string
		text     string
		expected []string
	}{
		{
			name:     "simple emoticon",
			text:     "(lolwut)",
			expected: []string{"lolwut"},
		},
		{
			name:     "digits allowed",
			text:     "(123abc)",
			expected: []string{"123abc"},
		},
		{
			name:     "adjacent emoticons kept in order with duplicates",
			text:     "(smile)(smile)(wow)",
			expected: []string{"smile", "smile", "wow"},
		},
		{
			name:     "fifteen characters is the limit",
			text:     "(abcdefghijklmno)",
			expected: []string{"abcdefghijklmno"},
		},
		{
			name:     "sixteen characters is too long",
			text:     "(abcdefghijklmnop)",
			expected: nil,
		},
		{
			name:     "way too long",
			text:     "(inagalaxyfarfarawaytherewasoneemoticontorulethemall)",
			expected: nil,
		},
		{
			name:     "empty parens too short",
			text:     "()",
			expected: nil,
		},
		{
			name:     "whitespace inside is malformed",
			text:     "(mal forma)",
			expected: nil,
		},
		{
			name:     "punctuation inside is malformed",
			text:     "(one+two)",
			expected: nil,
		},
		{
			name:     "unclosed paren",
			text:     "(wow",
			expected: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, extractor.Emoticons(tt.text))
		})
	}
}

func TestExtractURLs(t *testing.T) {
	extractor := NewSymbolExtractor()

	tests := []struct {
		name     string
		text     string
		expected []string
	}{
		{
			name:     "http url",
			text:     "http://google.com",
			expected: []string{"http://google.com"},
		},
		{
			name:     "https url",
			text:     "https://twitter.com/jdorfman/status/430511497475670016",
			expected: []string{"https://twitter.com/jdorfman/status/430511497475670016"},
		},
		{
			name:     "full uri with path",
			text:     "http://dillonhicks.io/index.html",
			expected: []string{"http://dillonhicks.io/index.html"},
		},
		{
			name:     "bare domain",
			text:     "Olympics are starting soon; www.nbcolympics.com",
			expected: []string{"www.nbcolympics.com"},
		},
		{
			name:     "scheme detached from domain still yields the domain",
			text:     "http:// google.com",
			expected: []string{"google.com"},
		},
		{
			name:     "multiple urls kept in order",
			text:     "http://bitbucket.org http://google.com http://dillonhicks.io",
			expected: []string{"http://bitbucket.org", "http://google.com", "http://dillonhicks.io"},
		},
		{
			name:     "single letter tld is not a url",
			text:     "lol.c om",
			expected: nil,
		},
		{
			name:     "underscore tld is not a url",
			text:     "htt://lol._org",
			expected: nil,
		},
		{
			name:     "plain text has no urls",
			text:     "@chris you around?",
			expected: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, extractor.URLs(tt.text))
		})
	}
}

func TestExtractAllCategories(t *testing.T) {
	extractor := NewSymbolExtractor()

	mentions, emoticons, urls := extractor.Extract(
		"@bob @john (success) such a cool feature; http://bitbucket.org")

	assert.Equal(t, []string{"bob", "john"}, mentions)
	assert.Equal(t, []string{"success"}, emoticons)
	assert.Equal(t, []string{"http://bitbucket.org"}, urls)
}
