package api

import "context"

// Links is the continuation pair extracted from a decoded page. The
// values are whatever the extractor wants replayed as the next request
// target: absolute URLs with offset/limit parameters or URLs composed
// from opaque before/after cursors both work.
type Links struct {
	Next *string
	Prev *string
	// Total is the collection size when the envelope reports one.
	Total *int
}

// Pager lazily walks a server-paginated collection in both directions,
// re-attaching a valid token to every fetch through the [Client].
//
// A Pager is designed for single-owner sequential traversal and is not
// safe for concurrent Next/Prev/Current calls; concurrent consumers need
// one Pager each or external serialization. State mutates only after a
// response is fully decoded, so a failed or abandoned fetch leaves the
// cursor unchanged and the operation safely retryable.
type Pager[T any] struct {
	client  *Client
	extract func(*T) Links

	links    Links
	current  string
	position int
	total    *int
}

// NewPager creates a Pager whose first Next fetches the start link.
func NewPager[T any](client *Client, start string, extract func(*T) Links) *Pager[T] {
	s := start
	return &Pager[T]{
		client:  client,
		extract: extract,
		links:   Links{Next: &s},
	}
}

// Next fetches the following page. Exhaustion is a normal terminal
// value: (nil, nil) means no more pages, not an error.
func (p *Pager[T]) Next(ctx context.Context) (*T, error) {
	if p.links.Next == nil {
		return nil, nil
	}

	link := *p.links.Next
	page, links, err := p.fetch(ctx, link)
	if err != nil {
		return nil, err
	}

	p.current = link
	p.links = links
	p.position++
	return page, nil
}

// Prev fetches the preceding page, symmetric to Next.
func (p *Pager[T]) Prev(ctx context.Context) (*T, error) {
	if p.links.Prev == nil {
		return nil, nil
	}

	link := *p.links.Prev
	page, links, err := p.fetch(ctx, link)
	if err != nil {
		return nil, err
	}

	p.current = link
	p.links = links
	p.position--
	return page, nil
}

// Current re-fetches the page at the current position without advancing,
// used after a mutation to redraw the same page with fresh contents.
// Returns (nil, nil) before the first successful Next or Prev.
func (p *Pager[T]) Current(ctx context.Context) (*T, error) {
	if p.current == "" {
		return nil, nil
	}

	page, links, err := p.fetch(ctx, p.current)
	if err != nil {
		return nil, err
	}

	p.links = links
	return page, nil
}

// fetch performs the authenticated page request and runs the extractor.
// Errors from the client surface unchanged; the Pager never retries.
func (p *Pager[T]) fetch(ctx context.Context, link string) (*T, Links, error) {
	var page T
	if err := p.client.Get(ctx, link, &page); err != nil {
		return nil, Links{}, err
	}

	links := p.extract(&page)
	if links.Total != nil {
		p.total = links.Total
	}
	return &page, links, nil
}

// Position returns the number of successful Next calls minus successful
// Prev calls; it only changes when a traversal yields a page.
func (p *Pager[T]) Position() int { return p.position }

// Total returns the collection size when a fetched envelope reported one.
func (p *Pager[T]) Total() (int, bool) {
	if p.total == nil {
		return 0, false
	}
	return *p.total, true
}

// HasNext reports whether a following page link is known.
func (p *Pager[T]) HasNext() bool { return p.links.Next != nil }

// HasPrev reports whether a preceding page link is known.
func (p *Pager[T]) HasPrev() bool { return p.links.Prev != nil }
