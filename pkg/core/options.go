package core

import (
	"github.com/charmbracelet/log"

	"github.com/edvocate/memshare-go/pkg/answer"
	"github.com/edvocate/memshare-go/pkg/notify"
	"github.com/edvocate/memshare-go/pkg/storage"
	"github.com/edvocate/memshare-go/pkg/suppress"
)

// ClientOption configures a Client at construction time.
//
// Options override what NewClient would otherwise build from the Config,
// which is how tests inject fakes and how callers supply custom
// collaborators.
type ClientOption func(*Client)

// WithStore overrides the storage backend built from the config.
func WithStore(store storage.Store) ClientOption {
	return func(c *Client) {
		c.storage = store
	}
}

// WithGenerator overrides the answer generator built from the config.
func WithGenerator(generator answer.Generator) ClientOption {
	return func(c *Client) {
		c.generator = generator
	}
}

// WithSuppressor overrides the duplicate suppressor built from the config.
func WithSuppressor(suppressor *suppress.Suppressor) ClientOption {
	return func(c *Client) {
		c.suppressor = suppressor
	}
}

// WithNotifier sets the advocate notification collaborator.
// The default is notify.Noop.
func WithNotifier(notifier notify.Notifier) ClientOption {
	return func(c *Client) {
		c.notifier = notifier
	}
}

// WithLogger sets the structured logger. The default logs to stderr.
func WithLogger(logger *log.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// QueryOption configures a single Query call.
type QueryOption func(*queryOptions)

type queryOptions struct {
	share bool
}

// WithShare requests that the answer be persisted for advocate visibility.
func WithShare(share bool) QueryOption {
	return func(o *queryOptions) {
		o.share = share
	}
}

func applyQueryOptions(opts []QueryOption) *queryOptions {
	options := &queryOptions{}
	for _, opt := range opts {
		opt(options)
	}
	return options
}
