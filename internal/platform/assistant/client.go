package assistant

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// Client bridges the dashboard chat to the upstream Clara model service.
// With no upstream configured it falls back to canned guidance so the
// endpoint stays usable in development.
type Client struct {
	upstreamURL string
	httpClient  *http.Client
}

func NewClient(upstreamURL string, timeout time.Duration) *Client {
	return &Client{
		upstreamURL: upstreamURL,
		httpClient:  &http.Client{Timeout: timeout},
	}
}

type chatRequest struct {
	Message string `json:"message"`
}

type chatResponse struct {
	Reply string `json:"reply"`
}

func (c *Client) Reply(ctx context.Context, message string) (string, error) {
	if c.upstreamURL == "" {
		return cannedReply(message), nil
	}

	payload, err := json.Marshal(chatRequest{Message: message})
	if err != nil {
		return "", err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.upstreamURL, bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("assistant upstream: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("assistant upstream returned status %d", resp.StatusCode)
	}
	var out chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("decoding assistant response: %w", err)
	}
	return out.Reply, nil
}

var cannedReplies = []struct {
	keywords []string
	reply    string
}{
	{
		keywords: []string{"fever", "temperature"},
		reply:    "For fever in children, monitor the temperature and keep them hydrated. Seek care urgently for a fever above 104F, a fever in an infant under 3 months, or a fever lasting more than 3 days.",
	},
	{
		keywords: []string{"rash", "hives"},
		reply:    "Most childhood rashes are mild. Watch for spreading, fever alongside the rash, or any breathing difficulty, which need prompt evaluation.",
	},
	{
		keywords: []string{"cough", "congestion", "cold"},
		reply:    "For cough and congestion, a cool-mist humidifier and fluids help. See a provider if breathing is labored or symptoms persist past 10 days.",
	},
	{
		keywords: []string{"vomit", "diarrhea", "stomach"},
		reply:    "Small, frequent sips of an oral rehydration solution help prevent dehydration. Watch for dry mouth, no tears, or fewer wet diapers.",
	},
}

const defaultCannedReply = "I can help with questions about your child's symptoms. Could you describe what you're seeing, including how long it has been going on?"

func cannedReply(message string) string {
	lower := strings.ToLower(message)
	for _, cr := range cannedReplies {
		for _, kw := range cr.keywords {
			if strings.Contains(lower, kw) {
				return cr.reply
			}
		}
	}
	return defaultCannedReply
}
