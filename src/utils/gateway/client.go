package gateway

import (
	"context"
	"fmt"
	"net/http"

	"github.com/adtgram/engine/src/utils/build_info"
	"github.com/adtgram/engine/src/utils/config"
	"github.com/adtgram/engine/src/utils/logger"
	"github.com/adtgram/engine/src/utils/model"

	"github.com/go-resty/resty/v2"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

// Client is the typed contract to the marketplace ledger.
// Stateless from the engine's viewpoint: every method is one
// request/response round trip.
type Client struct {
	client  *resty.Client
	config  *config.Config
	log     *logrus.Entry
	limiter *rate.Limiter
}

func NewClient(config *config.Config) (self *Client) {
	self = new(Client)
	self.config = config
	self.log = logger.NewSublogger("gateway")
	self.limiter = rate.NewLimiter(rate.Limit(config.Gateway.RateLimit), config.Gateway.RateBurst)

	self.client =
		resty.New().
			SetBaseURL(config.Gateway.Url).
			SetTimeout(config.Gateway.RequestTimeout).
			SetHeader("User-Agent", "adtgram/engine/"+build_info.Version).
			SetHeader("Content-Type", "application/json").
			SetRetryCount(config.Gateway.RetryCount).
			AddRetryCondition(self.onRetryCondition).
			OnBeforeRequest(self.onRateLimit).
			OnAfterResponse(func(c *resty.Client, resp *resty.Response) error {
				if resp.IsSuccess() {
					return nil
				}
				return &BackendError{StatusCode: resp.StatusCode(), Body: string(resp.Body())}
			})

	return
}

// Only reads are retried automatically. Writes map to state machine
// edges and their retry discipline belongs to the orchestrator.
func (self *Client) onRetryCondition(resp *resty.Response, err error) bool {
	if resp == nil || resp.Request.Method != http.MethodGet {
		return false
	}
	return resp.StatusCode() >= http.StatusInternalServerError
}

func (self *Client) onRateLimit(c *resty.Client, req *resty.Request) error {
	return self.limiter.Wait(req.Context())
}

func (self *Client) Channels(ctx context.Context) (out []model.Channel, err error) {
	_, err = self.client.R().
		SetContext(ctx).
		SetResult(&out).
		Get("/api/channels")
	return out, wrapErr(err)
}

func (self *Client) UserChannels(ctx context.Context, userID int64) (out []model.Channel, err error) {
	_, err = self.client.R().
		SetContext(ctx).
		SetResult(&out).
		Get(fmt.Sprintf("/api/channels/user/%d", userID))
	return out, wrapErr(err)
}

func (self *Client) UpdateChannelPrice(ctx context.Context, channelID, userID int64, priceTon float64) (err error) {
	_, err = self.client.R().
		SetContext(ctx).
		SetBody(UpdateChannelRequest{UserID: userID, PricePost: priceTon}).
		Put(fmt.Sprintf("/api/channels/%d", channelID))
	return wrapErr(err)
}

func (self *Client) UserDeals(ctx context.Context, userID int64) (out []model.Deal, err error) {
	_, err = self.client.R().
		SetContext(ctx).
		SetResult(&out).
		Get(fmt.Sprintf("/api/deals/user/%d", userID))
	return out, wrapErr(err)
}

func (self *Client) CreateDeal(ctx context.Context, req CreateDealRequest) (out CreateDealResponse, err error) {
	_, err = self.client.R().
		SetContext(ctx).
		SetBody(req).
		SetResult(&out).
		Post("/api/deals/create")
	return out, wrapErr(err)
}

func (self *Client) AcceptDeal(ctx context.Context, dealID, userID int64) (out StatusResponse, err error) {
	return self.postSimple(ctx, dealID, "accept", userID)
}

func (self *Client) RejectDeal(ctx context.Context, dealID, userID int64, reason string) (out StatusResponse, err error) {
	return self.postContent(ctx, dealID, "reject", userID, reason)
}

func (self *Client) SubmitDraft(ctx context.Context, dealID, userID int64, content string) (out StatusResponse, err error) {
	return self.postContent(ctx, dealID, "submit-draft", userID, content)
}

func (self *Client) ApproveDraft(ctx context.Context, dealID, userID int64) (out StatusResponse, err error) {
	return self.postSimple(ctx, dealID, "approve", userID)
}

func (self *Client) RequestRevision(ctx context.Context, dealID, userID int64, reason string) (out StatusResponse, err error) {
	return self.postContent(ctx, dealID, "request-revision", userID, reason)
}

// ConfirmPayment submits payment evidence. It is safe to call again
// with the same reference: the ledger deduplicates on the transaction
// hash and answers with the status it already holds.
func (self *Client) ConfirmPayment(ctx context.Context, dealID, userID int64, txHash string) (out StatusResponse, err error) {
	_, err = self.client.R().
		SetContext(ctx).
		SetBody(PaymentConfirmationRequest{UserID: userID, TransactionHash: txHash}).
		SetResult(&out).
		Post(fmt.Sprintf("/api/deals/%d/confirm-payment", dealID))
	return out, wrapErr(err)
}

func (self *Client) DisputeDeal(ctx context.Context, dealID, userID int64, reason string) (out StatusResponse, err error) {
	_, err = self.client.R().
		SetContext(ctx).
		SetBody(DisputeRequest{UserID: userID, Reason: reason}).
		SetResult(&out).
		Post(fmt.Sprintf("/api/deals/%d/dispute", dealID))
	return out, wrapErr(err)
}

func (self *Client) SaveWallet(ctx context.Context, userID int64, walletAddress string) (err error) {
	_, err = self.client.R().
		SetContext(ctx).
		SetBody(WalletUpdateRequest{UserID: userID, WalletAddress: walletAddress}).
		Post("/api/user/wallet")
	return wrapErr(err)
}

func (self *Client) SaveRole(ctx context.Context, userID int64, role model.Role) (err error) {
	_, err = self.client.R().
		SetContext(ctx).
		SetBody(RoleUpdateRequest{UserID: userID, Role: role}).
		Post("/api/user/role")
	return wrapErr(err)
}

func (self *Client) postSimple(ctx context.Context, dealID int64, action string, userID int64) (out StatusResponse, err error) {
	_, err = self.client.R().
		SetContext(ctx).
		SetBody(ActionSimpleRequest{UserID: userID}).
		SetResult(&out).
		Post(fmt.Sprintf("/api/deals/%d/%s", dealID, action))
	return out, wrapErr(err)
}

func (self *Client) postContent(ctx context.Context, dealID int64, action string, userID int64, content string) (out StatusResponse, err error) {
	_, err = self.client.R().
		SetContext(ctx).
		SetBody(ActionWithContentRequest{UserID: userID, Content: content}).
		SetResult(&out).
		Post(fmt.Sprintf("/api/deals/%d/%s", dealID, action))
	return out, wrapErr(err)
}
