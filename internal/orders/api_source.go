package orders

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// APISource is the live DataSource: a thin REST client for the orders
// backend. It unwraps the {data, pagination?} envelope (or takes the bare
// value when no envelope is present) and hands the raw payload back for
// normalization. Transport and backend failures propagate unchanged; retry
// and backoff are the caller's policy, not this client's.
type APISource struct {
	baseURL string
	client  *http.Client
}

func NewAPISource(baseURL string, timeout time.Duration) *APISource {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &APISource{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
	}
}

func (s *APISource) ListOrders(ctx context.Context, params ListParams) ([]Raw, Pagination, error) {
	data, envelope, err := s.do(ctx, http.MethodGet, "/orders", listQuery(params), nil)
	if err != nil {
		return nil, Pagination{}, err
	}
	list := asRawSlice(data)
	pagination := Pagination{Page: params.Page, Limit: params.Limit, Total: len(list)}
	if pg := rawMap(envelope, "pagination"); pg != nil {
		pagination = Pagination{
			Page:       rawInt(pg, pagination.Page, "page"),
			Limit:      rawInt(pg, pagination.Limit, "limit"),
			Total:      rawInt(pg, pagination.Total, "total"),
			TotalPages: rawInt(pg, 0, "totalPages", "total_pages"),
		}
	}
	return list, pagination, nil
}

func (s *APISource) GetOrder(ctx context.Context, id string) (Raw, error) {
	data, _, err := s.do(ctx, http.MethodGet, "/orders/"+url.PathEscape(id), nil, nil)
	if err != nil {
		return nil, wrapNotFound(err, id)
	}
	return asRaw(data), nil
}

func (s *APISource) GenerateOrderNumber(ctx context.Context, params NumberParams) (Raw, error) {
	query := url.Values{}
	setQuery(query, "prefix", params.Prefix)
	setQuery(query, "channel", params.Channel)
	setQuery(query, "type", params.Type)
	data, _, err := s.do(ctx, http.MethodGet, "/orders/generate-number", query, nil)
	if err != nil {
		return nil, err
	}
	return asRaw(data), nil
}

func (s *APISource) CreateOrder(ctx context.Context, data Raw) (Raw, error) {
	created, _, err := s.do(ctx, http.MethodPost, "/orders", nil, data)
	if err != nil {
		return nil, err
	}
	return asRaw(created), nil
}

func (s *APISource) UpdateOrderStatus(ctx context.Context, id string, status string, extra Raw) (Raw, error) {
	body := Raw{"status": status}
	for key, value := range extra {
		body[key] = value
	}
	data, _, err := s.do(ctx, http.MethodPatch, "/orders/"+url.PathEscape(id)+"/status", nil, body)
	if err != nil {
		return nil, wrapNotFound(err, id)
	}
	return asRaw(data), nil
}

func (s *APISource) UpdateOrderAutoFlow(ctx context.Context, id string, update AutoFlowUpdate) (Raw, error) {
	data, _, err := s.do(ctx, http.MethodPatch, "/orders/"+url.PathEscape(id)+"/auto-flow", nil, update)
	if err != nil {
		return nil, wrapNotFound(err, id)
	}
	return asRaw(data), nil
}

func (s *APISource) UpdateOrderItemState(ctx context.Context, orderID, itemID string, update ItemStateUpdate) (Raw, Raw, error) {
	path := "/orders/" + url.PathEscape(orderID) + "/items/" + url.PathEscape(itemID) + "/state"
	data, _, err := s.do(ctx, http.MethodPatch, path, nil, update)
	if err != nil {
		return nil, nil, wrapNotFound(err, orderID)
	}
	payload := asRaw(data)
	return rawMap(payload, "order"), rawMap(payload, "item"), nil
}

func (s *APISource) OrderQueue(ctx context.Context, params QueueParams) (Raw, error) {
	query := url.Values{}
	setQuery(query, "station", params.Station)
	setQuery(query, "channel", params.Channel)
	data, _, err := s.do(ctx, http.MethodGet, "/orders/queue", query, nil)
	if err != nil {
		return nil, err
	}
	return asRaw(data), nil
}

func (s *APISource) OrderHistory(ctx context.Context, params ListParams) ([]Raw, error) {
	data, _, err := s.do(ctx, http.MethodGet, "/orders/history", listQuery(params), nil)
	if err != nil {
		return nil, err
	}
	return asRawSlice(data), nil
}

func (s *APISource) ProcessPayment(ctx context.Context, orderID string, data Raw) (Raw, error) {
	result, _, err := s.do(ctx, http.MethodPost, "/orders/"+url.PathEscape(orderID)+"/payment", nil, data)
	if err != nil {
		return nil, wrapNotFound(err, orderID)
	}
	return asRaw(result), nil
}

// do executes one round trip and returns the unwrapped data value plus the
// full decoded envelope (nil when the response was a bare value).
func (s *APISource) do(ctx context.Context, method, path string, query url.Values, body any) (any, Raw, error) {
	target := s.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return nil, nil, err
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return nil, nil, err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, nil, err
	}
	defer resp.Body.Close()

	payload, readErr := io.ReadAll(io.LimitReader(resp.Body, 8<<20))
	if resp.StatusCode == http.StatusNotFound {
		return nil, nil, ErrOrderNotFound
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, nil, fmt.Errorf("orders api: %s %s returned %d: %s", method, path, resp.StatusCode, apiErrorMessage(payload))
	}
	if readErr != nil {
		return nil, nil, readErr
	}
	if len(bytes.TrimSpace(payload)) == 0 {
		return nil, nil, nil
	}

	var decoded any
	if err := json.Unmarshal(payload, &decoded); err != nil {
		return nil, nil, fmt.Errorf("orders api: %s %s: %w", method, path, err)
	}

	if envelope, ok := decoded.(map[string]any); ok {
		if data, present := envelope["data"]; present {
			return data, envelope, nil
		}
	}
	return decoded, nil, nil
}

func apiErrorMessage(payload []byte) string {
	var envelope struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(payload, &envelope); err == nil {
		if envelope.Message != "" {
			return envelope.Message
		}
		if envelope.Error != "" {
			return envelope.Error
		}
	}
	return strings.TrimSpace(string(payload))
}

func wrapNotFound(err error, id string) error {
	if err == ErrOrderNotFound {
		return fmt.Errorf("order %s: %w", id, ErrOrderNotFound)
	}
	return err
}

func listQuery(params ListParams) url.Values {
	query := url.Values{}
	setQuery(query, "status", params.Status)
	setQuery(query, "channel", params.Channel)
	setQuery(query, "search", params.Search)
	if params.Page > 0 {
		query.Set("page", strconv.Itoa(params.Page))
	}
	if params.Limit > 0 {
		query.Set("limit", strconv.Itoa(params.Limit))
	}
	return query
}

func setQuery(query url.Values, key, value string) {
	if strings.TrimSpace(value) != "" {
		query.Set(key, value)
	}
}

func asRaw(v any) Raw {
	if m, ok := v.(map[string]any); ok {
		return m
	}
	return nil
}

func asRawSlice(v any) []Raw {
	entries, ok := v.([]any)
	if !ok {
		return []Raw{}
	}
	out := make([]Raw, 0, len(entries))
	for _, entry := range entries {
		if m, ok := entry.(map[string]any); ok {
			out = append(out, m)
		}
	}
	return out
}
