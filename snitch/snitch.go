package snitch

import (
	"context"
	"fmt"
	"net/http"
	"time"
)

const defaultBase = "https://nosnch.in/"

func OK(ctx context.Context, id string) error {
	return New(id).OK(ctx)
}

type Snitcher struct {
	id     string
	base   string
	client *http.Client
}

func New(id string) *Snitcher {
	return &Snitcher{
		id:     id,
		base:   defaultBase,
		client: &http.Client{Timeout: 30 * time.Second},
	}
}

// OK checks in with the dead man's snitch.
func (sn *Snitcher) OK(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, sn.base+sn.id, nil)
	if err != nil {
		return err
	}
	resp, err := sn.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode/100 != 2 {
		return fmt.Errorf("snitch returned status %d", resp.StatusCode)
	}
	return nil
}
