package provider

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

type siteVerifyResponse struct {
	Success    bool     `json:"success"`
	Score      float64  `json:"score"`
	Action     string   `json:"action"`
	Hostname   string   `json:"hostname"`
	ErrorCodes []string `json:"error-codes"`
}

// RecaptchaVerifier checks widget tokens against Google's siteverify endpoint
type RecaptchaVerifier struct {
	client    *resty.Client
	verifyURL string
	secret    string
	minScore  float64
}

func NewRecaptchaVerifier(verifyURL, secret string, minScore float64) *RecaptchaVerifier {
	return &RecaptchaVerifier{
		client:    resty.New().SetTimeout(10 * time.Second),
		verifyURL: verifyURL,
		secret:    secret,
		minScore:  minScore,
	}
}

func (v *RecaptchaVerifier) Verify(ctx context.Context, token string) error {
	if token == "" {
		return errors.New("missing recaptcha token")
	}

	var out siteVerifyResponse
	resp, err := v.client.R().
		SetContext(ctx).
		SetFormData(map[string]string{
			"secret":   v.secret,
			"response": token,
		}).
		SetResult(&out).
		Post(v.verifyURL)
	if err != nil {
		return fmt.Errorf("siteverify request: %w", err)
	}
	if resp.IsError() {
		return fmt.Errorf("siteverify returned status %d", resp.StatusCode())
	}

	if !out.Success {
		return fmt.Errorf("recaptcha rejected: %s", strings.Join(out.ErrorCodes, ","))
	}
	// v2 checkbox/invisible responses carry no score
	if v.minScore > 0 && out.Score > 0 && out.Score < v.minScore {
		return fmt.Errorf("recaptcha score %.2f below %.2f", out.Score, v.minScore)
	}
	return nil
}
