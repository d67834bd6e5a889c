package main

import (
	"context"
	"time"
	"unicode/utf8"

	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// ErrInvalidInput reports message content that is not textual data. It is the
// only failure mode of ParseMessage besides a serializer error; everything
// that goes wrong during link resolution merely shrinks the output.
var ErrInvalidInput = errors.New("message content is not valid UTF-8 text")

// UnlimitedURLs disables the per-message URL cap.
const UnlimitedURLs = -1

// MessageProcessor orchestrates message parsing: it runs the extractor,
// deduplicates the symbols, fans out one concurrent title resolution per URL
// under a single global deadline, and assembles the serialized response.
type MessageProcessor struct {
	extractor *SymbolExtractor
	resolver  *TitleResolver
	serialize Serializer
	deadline  time.Duration
	logger    *zap.Logger
}

// NewMessageProcessor creates a new message processor. deadline bounds the
// combined wait for all link resolutions of one message. A nil serialize
// selects JSONSerializer.
func NewMessageProcessor(
	extractor *SymbolExtractor,
	resolver *TitleResolver,
	serialize Serializer,
	deadline time.Duration,
	logger *zap.Logger,
) *MessageProcessor {
	if serialize == nil {
		serialize = JSONSerializer
	}

	return &MessageProcessor{
		extractor: extractor,
		resolver:  resolver,
		serialize: serialize,
		deadline:  deadline,
		logger:    logger,
	}
}

// ParseMessage extracts the special symbols from content and returns the
// serialized response.
//
// Mentions and emoticons keep first-occurrence order with duplicates removed
// (exact string equality). URLs are deduplicated the same way before
// normalization, truncated to maxURLs (UnlimitedURLs disables the cap), and
// resolved concurrently; resolutions still in flight when the deadline expires
// are cancelled and omitted. Links appear in completion order, which is not
// necessarily the order the URLs appeared in the message.
//
// Parsing does no content sanitation or truncation; that is the transport's
// responsibility. The one check performed is that content is textual data.
func (p *MessageProcessor) ParseMessage(ctx context.Context, content string, maxURLs int) (string, error) {
	if !utf8.ValidString(content) {
		return "", ErrInvalidInput
	}

	p.logger.Debug("Parsing message", zap.Int("length", len(content)))

	mentions, emoticons, urls := p.extractor.Extract(content)

	urls = uniqueStrings(urls)
	if maxURLs >= 0 && len(urls) > maxURLs {
		p.logger.Debug("Skipping further urls, content exceeded the url cap",
			zap.Int("maxUrls", maxURLs),
			zap.Int("skipped", len(urls)-maxURLs))
		urls = urls[:maxURLs]
	}

	result := &ParseResult{
		Mentions:  uniqueStrings(mentions),
		Emoticons: uniqueStrings(emoticons),
		Links:     p.resolveLinks(ctx, urls),
	}

	return p.serialize(result)
}

// resolveLinks fans out one resolution per URL and joins on the global
// deadline, measured from the moment waiting begins. Resolutions that have
// already completed by the deadline are kept; the rest are cancelled through
// ctx and excluded, with no effect on the cache.
func (p *MessageProcessor) resolveLinks(ctx context.Context, urls []string) []Link {
	if len(urls) == 0 {
		return nil
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Buffered so an abandoned resolution can still deliver and exit.
	completed := make(chan resolution, len(urls))
	for _, url := range urls {
		go func(url string) {
			link, ok := p.resolver.Resolve(ctx, url)
			completed <- resolution{link: link, ok: ok}
		}(url)
	}

	timer := time.NewTimer(p.deadline)
	defer timer.Stop()

	var links []Link
	for done := 0; done < len(urls); done++ {
		select {
		case res := <-completed:
			if res.ok {
				links = append(links, res.link)
			}
		case <-timer.C:
			p.logger.Debug("Deadline expired, cancelling pending resolutions",
				zap.Int("pending", len(urls)-done))
			cancel()
			return append(links, drainCompleted(completed)...)
		case <-ctx.Done():
			return append(links, drainCompleted(completed)...)
		}
	}

	return links
}

// resolution is the outcome of one resolution task. ok mirrors the Resolve
// contract: false means the URL is dropped from the output.
type resolution struct {
	link Link
	ok   bool
}

// drainCompleted collects the resolutions that finished before the deadline
// fired but have not been received yet. It never blocks.
func drainCompleted(completed <-chan resolution) []Link {
	var links []Link
	for {
		select {
		case res := <-completed:
			if res.ok {
				links = append(links, res.link)
			}
		default:
			return links
		}
	}
}

// uniqueStrings filters duplicates while keeping first-occurrence order.
func uniqueStrings(values []string) []string {
	if len(values) == 0 {
		return nil
	}

	seen := make(map[string]bool, len(values))
	var unique []string
	for _, value := range values {
		if seen[value] {
			continue
		}
		seen[value] = true
		unique = append(unique, value)
	}
	return unique
}
