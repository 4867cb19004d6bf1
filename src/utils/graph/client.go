package graph

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/pumasi/core/src/utils/build_info"
	"github.com/pumasi/core/src/utils/config"
	"github.com/pumasi/core/src/utils/logger"

	"github.com/go-resty/resty/v2"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

// Client posts GraphQL queries to the indexer.
// The indexer trails the ledger by an unbounded amount, callers treat
// every response as a possibly stale snapshot.
type Client struct {
	client  *resty.Client
	config  *config.Config
	log     *logrus.Entry
	limiter *rate.Limiter
}

func NewClient(config *config.Config) (self *Client) {
	self = new(Client)
	self.config = config
	self.log = logger.NewSublogger("graph-client")
	self.limiter = rate.NewLimiter(rate.Limit(config.Indexer.RateLimit), config.Indexer.RateBurst)

	self.client =
		resty.New().
			SetBaseURL(config.Indexer.Url).
			SetTimeout(config.Indexer.RequestTimeout).
			SetHeader("User-Agent", "pumasi-core/"+build_info.Version).
			SetHeader("Content-Type", "application/json").
			OnBeforeRequest(self.onRateLimit).
			OnAfterResponse(self.onStatusToError)

	return
}

func (self *Client) onRateLimit(c *resty.Client, req *resty.Request) error {
	return self.limiter.Wait(req.Context())
}

func (self *Client) onStatusToError(c *resty.Client, resp *resty.Response) error {
	// Non-success status code turns into an error
	if resp.IsSuccess() {
		return nil
	}
	if resp.StatusCode() > 399 && resp.StatusCode() < 500 {
		self.log.WithField("status", resp.StatusCode()).
			WithField("resp", string(resp.Body())).
			WithField("url", resp.Request.URL).
			Debug("Bad request")
	}
	return fmt.Errorf("unexpected status: %s", resp.Status())
}

type request struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables,omitempty"`
}

type response struct {
	Data   json.RawMessage `json:"data"`
	Errors []struct {
		Message string `json:"message"`
	} `json:"errors"`
}

// query runs one GraphQL request and unmarshals data into out
func (self *Client) query(ctx context.Context, query string, variables map[string]any, out any) (err error) {
	resp, err := self.client.R().
		SetContext(ctx).
		SetBody(request{Query: query, Variables: variables}).
		SetResult(&response{}).
		Post("")
	if err != nil {
		return
	}

	body, ok := resp.Result().(*response)
	if !ok {
		err = fmt.Errorf("unexpected response shape")
		return
	}

	if len(body.Errors) > 0 {
		messages := make([]string, 0, len(body.Errors))
		for _, e := range body.Errors {
			messages = append(messages, e.Message)
		}
		err = fmt.Errorf("indexer error: %s", strings.Join(messages, "; "))
		return
	}

	return json.Unmarshal(body.Data, out)
}
