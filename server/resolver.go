package main

import (
	"bytes"
	"context"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
	"golang.org/x/net/html"

	"github.com/chattools/msgparse/server/store/linkcache"
)

var (
	// http:// or https:// prefix
	httpPrefixPattern = regexp.MustCompile(`^https?://`)

	// case insensitive HTML media type
	htmlContentPattern = regexp.MustCompile(`(?i)text/html`)

	// two or more whitespace symbols
	multiWhitespacePattern = regexp.MustCompile(`\s\s+`)
)

const resolverUserAgent = "msgparse/1.0"

// TitleResolver resolves a URL to its display title by fetching the remote
// document, consulting a shared cache of previously resolved links first.
type TitleResolver struct {
	client *resty.Client
	cache  *linkcache.Cache[Link]
	logger *zap.Logger
}

// NewTitleResolver creates a resolver that fetches with the given per-request
// timeout and stores successful resolutions in cache.
func NewTitleResolver(cache *linkcache.Cache[Link], timeout time.Duration, logger *zap.Logger) *TitleResolver {
	client := resty.New().
		SetTimeout(timeout).
		SetHeader("User-Agent", resolverUserAgent)

	return &TitleResolver{
		client: client,
		cache:  cache,
		logger: logger,
	}
}

// Resolve produces the Link for rawURL, or ok == false if the URL should be
// dropped from the output.
//
// The URL is normalized (an http:// prefix is prepended when no scheme is
// present) and probed against the cache before any network access. Transport
// failures, including cancellation of ctx mid-fetch, drop the URL without a
// cache write, so it is eligible for re-resolution on a future message.
// Non-success and non-HTML responses are not errors: the normalized URL itself
// becomes the title, and that fallback is cached like any other result.
func (r *TitleResolver) Resolve(ctx context.Context, rawURL string) (Link, bool) {
	url := normalizeURL(rawURL)

	if link, ok := r.cache.Get(url); ok {
		return link, true
	}

	r.logger.Debug("Fetching url", zap.String("url", url))

	resp, err := r.client.R().SetContext(ctx).Get(url)
	if err != nil {
		r.logger.Warn("Failed to fetch url", zap.String("url", url), zap.Error(err))
		return Link{}, false
	}

	contentType := resp.Header().Get("Content-Type")

	if resp.StatusCode() != http.StatusOK || !htmlContentPattern.MatchString(contentType) {
		// Short circuit - do not go looking for a title in mime-type/jpg
		// or in error pages. The URL doubles as the display value.
		r.logger.Debug("Skipping content of url",
			zap.String("url", url),
			zap.Int("status", resp.StatusCode()),
			zap.String("contentType", contentType))

		link := Link{URL: url, Title: url}
		r.cache.Set(url, link)
		return link, true
	}

	title, found := findTitle(resp.Body())
	if !found {
		title = url
	}

	link := Link{
		URL:   url,
		Title: multiWhitespacePattern.ReplaceAllString(title, " "),
	}

	r.cache.Set(url, link)
	return link, true
}

// normalizeURL prepends an http:// scheme when the URL has none.
func normalizeURL(rawURL string) string {
	if httpPrefixPattern.MatchString(rawURL) {
		return rawURL
	}
	return "http://" + rawURL
}

// findTitle walks the document one token at a time and returns the text of
// the first title element. The tokenizer recovers from malformed markup, so
// unparsable documents simply yield no title.
func findTitle(body []byte) (string, bool) {
	tokenizer := html.NewTokenizer(bytes.NewReader(body))

	inTitle := false
	var title strings.Builder

	for {
		switch tokenizer.Next() {
		case html.ErrorToken:
			// End of document. An unclosed title still counts; the
			// tokenizer recovers from malformed markup around it.
			if inTitle && title.Len() > 0 {
				return title.String(), true
			}
			return "", false
		case html.StartTagToken:
			name, _ := tokenizer.TagName()
			if string(name) == "title" {
				inTitle = true
			}
		case html.EndTagToken:
			name, _ := tokenizer.TagName()
			if inTitle && string(name) == "title" {
				return title.String(), true
			}
		case html.TextToken:
			if inTitle {
				title.Write(tokenizer.Text())
			}
		}
	}
}
