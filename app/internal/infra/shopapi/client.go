package shopapi

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

const (
	defaultTimeout = 15 * time.Second
	maxErrorBody   = 4 << 10
	tracerName     = "example.com/shop-console/shopapi"
)

// TokenSource supplies the bearer token attached to every request.
type TokenSource interface {
	Token() (string, error)
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.http.Timeout = d }
}

func WithTokenSource(ts TokenSource) Option {
	return func(c *Client) { c.tokens = ts }
}

func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(c *Client) { c.tracer = tp.Tracer(tracerName) }
}

// Client talks to the shop REST API. Each entity has its own wrapper; calls
// are plain pass-through with no retries or validation.
type Client struct {
	baseURL string
	http    *http.Client
	tokens  TokenSource
	tracer  trace.Tracer

	Brands        *Resource[Brand]
	Categories    *Resource[Category]
	Colors        *Resource[Color]
	Sizes         *Resource[Size]
	Products      *Resource[Product]
	Coupons       *CouponService
	Discounts     *DiscountService
	Variants      *VariantService
	Users         *UserService
	Orders        *OrderService
	Returns       *ReturnService
	Suppliers     *SupplierService
	GoodsReceipts *GoodsReceiptService
	Dashboard     *DashboardService
	Imports       *ImportService
}

func New(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, errors.Wrap(err, "shop api base url")
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, errors.Errorf("shop api base url %q must be absolute", baseURL)
	}

	c := &Client{
		baseURL: strings.TrimRight(u.String(), "/"),
		http:    &http.Client{Timeout: defaultTimeout},
		tracer:  otel.Tracer(tracerName),
	}
	for _, opt := range opts {
		opt(c)
	}

	c.Brands = newResource[Brand](c, "/brands")
	c.Categories = newResource[Category](c, "/categories")
	c.Colors = newResource[Color](c, "/colors")
	c.Sizes = newResource[Size](c, "/sizes")
	c.Products = newResource[Product](c, "/products")
	c.Coupons = &CouponService{Resource: newResource[Coupon](c, "/coupons")}
	c.Discounts = &DiscountService{Resource: newResource[Discount](c, "/discounts")}
	c.Variants = &VariantService{Resource: newResource[Variant](c, "/product-variants")}
	c.Users = &UserService{Resource: newResource[User](c, "/users")}
	c.Orders = &OrderService{c: c}
	c.Returns = &ReturnService{c: c}
	c.Suppliers = &SupplierService{Resource: newResource[Supplier](c, "/suppliers")}
	c.GoodsReceipts = &GoodsReceiptService{c: c}
	c.Dashboard = &DashboardService{c: c}
	c.Imports = &ImportService{c: c}
	return c, nil
}

// doJSON sends body (if any) as JSON and decodes a JSON answer into out (if any).
func (c *Client) doJSON(ctx context.Context, method, path string, query url.Values, body any, out any) error {
	var reader io.Reader
	contentType := ""
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return errors.Wrapf(err, "encode %s %s", method, path)
		}
		reader = bytes.NewReader(b)
		contentType = "application/json"
	}

	return c.send(ctx, method, path, query, reader, contentType, func(resp *http.Response) error {
		if out == nil {
			_, _ = io.Copy(io.Discard, resp.Body)
			return nil
		}
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return errors.Wrapf(err, "decode %s %s", method, path)
		}
		return nil
	})
}

func (c *Client) send(
	ctx context.Context,
	method, path string,
	query url.Values,
	body io.Reader,
	contentType string,
	handle func(*http.Response) error,
) error {
	ctx, span := c.tracer.Start(ctx, "shopapi "+method,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("http.request.method", method),
			attribute.String("url.path", path),
		),
	)
	defer span.End()

	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return errors.Wrapf(err, "build %s %s", method, path)
	}
	req.Header.Set("Accept", "application/json")
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if c.tokens != nil {
		token, err := c.tokens.Token()
		if err != nil {
			return errors.Wrap(err, "shop api token")
		}
		req.Header.Set("Authorization", "Bearer "+token)
	}
	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(req.Header))

	resp, err := c.http.Do(req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return errors.Wrapf(err, "%s %s", method, path)
	}
	defer resp.Body.Close()

	span.SetAttributes(attribute.Int("http.response.status_code", resp.StatusCode))
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		apiErr := &APIError{
			StatusCode: resp.StatusCode,
			Method:     method,
			Path:       path,
			Body:       strings.TrimSpace(string(msg)),
		}
		span.SetStatus(codes.Error, apiErr.Error())
		return apiErr
	}
	return handle(resp)
}

func idPath(base string, id int64) string {
	return base + "/" + strconv.FormatInt(id, 10)
}
