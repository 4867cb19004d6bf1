package blob

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/pumasi/core/src/utils/build_info"
	"github.com/pumasi/core/src/utils/config"
	"github.com/pumasi/core/src/utils/logger"

	"github.com/go-resty/resty/v2"
	"github.com/patrickmn/go-cache"
	"github.com/sirupsen/logrus"
)

var ErrNotFound = errors.New("blob not found")

// Client fetches content-addressed metadata blobs through an HTTP
// gateway. Content is immutable, so cached entries are only ever evicted
// by TTL, never invalidated.
type Client struct {
	client *resty.Client
	config *config.Config
	log    *logrus.Entry
	cache  *cache.Cache
}

// NewClient creates a client with its own TTL cache
func NewClient(config *config.Config) (self *Client) {
	return NewClientWithCache(config, cache.New(config.BlobStore.CacheTTL, config.BlobStore.CacheCleanupInterval))
}

// NewClientWithCache accepts the cache as a dependency. Tests and
// multi-client setups share one cache this way instead of relying on
// package-level state.
func NewClientWithCache(config *config.Config, blobCache *cache.Cache) (self *Client) {
	self = new(Client)
	self.config = config
	self.log = logger.NewSublogger("blob-client")
	self.cache = blobCache

	self.client =
		resty.New().
			SetTimeout(config.BlobStore.RequestTimeout).
			SetHeader("User-Agent", "pumasi-core/"+build_info.Version)

	return
}

// resolve turns a scheme-prefixed ref (ipfs://<cid>) into a gateway URL
func (self *Client) resolve(ref string) (url string, err error) {
	id := ref
	if idx := strings.Index(ref, "://"); idx >= 0 {
		id = ref[idx+3:]
	}
	if id == "" {
		err = fmt.Errorf("empty blob ref: %q", ref)
		return
	}
	url = strings.TrimSuffix(self.config.BlobStore.GatewayUrl, "/") + "/" + id
	return
}

// Get fetches a raw blob by ref, served from cache when possible
func (self *Client) Get(ctx context.Context, ref string) (out []byte, err error) {
	if cached, found := self.cache.Get(ref); found {
		out = cached.([]byte)
		return
	}

	url, err := self.resolve(ref)
	if err != nil {
		return
	}

	resp, err := self.client.R().
		SetContext(ctx).
		Get(url)
	if err != nil {
		return
	}

	if resp.StatusCode() == 404 {
		err = ErrNotFound
		return
	}
	if !resp.IsSuccess() {
		err = fmt.Errorf("unexpected status: %s", resp.Status())
		return
	}

	out = resp.Body()
	self.cache.SetDefault(ref, out)
	return
}

// GetJSON fetches a blob and decodes it into out. Callers degrade to
// placeholder fields on any error, a missing blob never fails a read.
func (self *Client) GetJSON(ctx context.Context, ref string, out any) (err error) {
	data, err := self.Get(ctx, ref)
	if err != nil {
		return
	}
	return json.Unmarshal(data, out)
}

// Put uploads a blob and returns its content-addressed ref
func (self *Client) Put(ctx context.Context, data []byte) (ref string, err error) {
	if self.config.BlobStore.UploadUrl == "" {
		err = errors.New("no upload endpoint configured")
		return
	}

	var result struct {
		Hash string `json:"Hash"`
	}

	resp, err := self.client.R().
		SetContext(ctx).
		SetFileReader("file", "blob", bytes.NewReader(data)).
		SetResult(&result).
		Post(self.config.BlobStore.UploadUrl)
	if err != nil {
		return
	}
	if !resp.IsSuccess() {
		err = fmt.Errorf("unexpected status: %s", resp.Status())
		return
	}
	if result.Hash == "" {
		err = errors.New("upload returned no content id")
		return
	}

	ref = "ipfs://" + result.Hash
	self.cache.SetDefault(ref, data)
	return
}

// PutJSON marshals v and uploads it
func (self *Client) PutJSON(ctx context.Context, v any) (ref string, err error) {
	data, err := json.Marshal(v)
	if err != nil {
		return
	}
	return self.Put(ctx, data)
}
