// Package gateway is the console's typed client for the API gateway.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Himanshu-Yadav-0/BilliardsOne/backend/libs/errs"
)

// Bill is the priced outcome of an ended session.
type Bill struct {
	SessionID         string          `json:"session_id"`
	Strategy          string          `json:"strategy"`
	TotalMinutes      int64           `json:"total_minutes"`
	TimeBasedCost     decimal.Decimal `json:"time_based_cost"`
	ExtraPlayers      int             `json:"extra_players"`
	ExtraPlayerCharge decimal.Decimal `json:"extra_player_charge"`
	TotalDue          decimal.Decimal `json:"total_due"`
	Warnings          []string        `json:"warnings,omitempty"`
}

// Table is one row of the staff dashboard.
type Table struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Type      string `json:"table_type"`
	Status    string `json:"status"`
	SessionID string `json:"current_session_id,omitempty"`
	Elapsed   string `json:"elapsed_time,omitempty"`
	Players   int    `json:"current_players,omitempty"`
	Bill      *Bill  `json:"bill,omitempty"`
}

// Dashboard is the cafe overview.
type Dashboard struct {
	CafeID string  `json:"cafe_id"`
	Tables []Table `json:"tables"`
}

// Session is a game session as returned by the lifecycle endpoints.
type Session struct {
	ID        string    `json:"id"`
	TableID   string    `json:"table_id"`
	Status    string    `json:"status"`
	Players   int       `json:"players"`
	StartTime time.Time `json:"start_time"`
	Bill      *Bill     `json:"bill,omitempty"`
}

// Payment is a recorded settlement.
type Payment struct {
	ID            string          `json:"id"`
	SessionID     string          `json:"session_id"`
	Amount        decimal.Decimal `json:"amount"`
	Method        string          `json:"method"`
	MinutesPlayed int64           `json:"minutes_played"`
	PaidAt        time.Time       `json:"paid_at"`
	TableName     string          `json:"table_name,omitempty"`
}

type loginReply struct {
	AccessToken string `json:"access_token"`
}

type errorReply struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// Client talks to the gateway on behalf of one console user.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient builds a client for baseURL.
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

// Login exchanges a mobile number and PIN for a bearer credential.
func (c *Client) Login(ctx context.Context, mobile, pin string) (string, error) {
	var reply loginReply
	body := map[string]string{"mobile_no": mobile, "pin": pin}
	if err := c.call(ctx, "gateway.login", http.MethodPost, "/api/auth/login", "", body, &reply); err != nil {
		return "", err
	}
	return reply.AccessToken, nil
}

// IssueStaffToken asks the gateway for a staff credential scoped to cafeID.
func (c *Client) IssueStaffToken(ctx context.Context, ownerToken, cafeID string) (string, error) {
	var reply loginReply
	path := "/api/auth/assume-role/" + url.PathEscape(cafeID)
	if err := c.call(ctx, "gateway.assume_role", http.MethodPost, path, ownerToken, nil, &reply); err != nil {
		return "", err
	}
	return reply.AccessToken, nil
}

// Dashboard returns the tables of the bearer's cafe.
func (c *Client) Dashboard(ctx context.Context, bearer string) (*Dashboard, error) {
	var out Dashboard
	if err := c.call(ctx, "gateway.dashboard", http.MethodGet, "/api/staff/dashboard", bearer, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// StartSession opens a session on tableID.
func (c *Client) StartSession(ctx context.Context, bearer, tableID string, players int) (*Session, error) {
	var out Session
	body := map[string]interface{}{"table_id": tableID, "initial_players": players}
	if err := c.call(ctx, "gateway.start", http.MethodPost, "/api/staff/sessions/start", bearer, body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdatePlayers changes the player count of an active session.
func (c *Client) UpdatePlayers(ctx context.Context, bearer, sessionID string, players int) (*Session, error) {
	var out Session
	body := map[string]interface{}{"session_id": sessionID, "new_player_count": players}
	if err := c.call(ctx, "gateway.players", http.MethodPost, "/api/staff/sessions/players", bearer, body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// EndSession ends a session and returns its bill.
func (c *Client) EndSession(ctx context.Context, bearer, sessionID string) (*Bill, error) {
	var out Bill
	path := fmt.Sprintf("/api/staff/sessions/%s/end", url.PathEscape(sessionID))
	if err := c.call(ctx, "gateway.end", http.MethodPost, path, bearer, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Pay records the payment for an ended session.
func (c *Client) Pay(ctx context.Context, bearer, sessionID string, amount decimal.Decimal, method string) (*Payment, error) {
	var out Payment
	body := map[string]interface{}{"session_id": sessionID, "amount": amount, "payment_method": method}
	if err := c.call(ctx, "gateway.pay", http.MethodPost, "/api/staff/payments", bearer, body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// PaymentsToday lists the cafe's payments for the current day.
func (c *Client) PaymentsToday(ctx context.Context, bearer string) ([]Payment, error) {
	var out struct {
		Payments []Payment `json:"payments"`
	}
	if err := c.call(ctx, "gateway.payments", http.MethodGet, "/api/staff/payments", bearer, nil, &out); err != nil {
		return nil, err
	}
	return out.Payments, nil
}

func (c *Client) call(ctx context.Context, op, method, path, bearer string, in, out interface{}) error {
	var reader io.Reader
	if in != nil {
		raw, err := json.Marshal(in)
		if err != nil {
			return errs.Wrap(errs.KindInvalidInput, op, err)
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return errs.Wrap(errs.KindUnknown, op, err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return errs.Wrap(errs.KindUnknown, op, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		var reply errorReply
		_ = json.NewDecoder(resp.Body).Decode(&reply)
		if reply.Error == "" {
			reply.Error = http.StatusText(resp.StatusCode)
		}
		return errs.E(errs.FromHTTPStatus(resp.StatusCode, reply.Code), op, reply.Error)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return errs.Wrap(errs.KindUnknown, op, fmt.Errorf("decode reply: %w", err))
	}
	return nil
}
