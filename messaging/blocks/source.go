package blocks

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/nbd-wtf/go-nostr"
	"tokensale/engine/library"
)

const DefaultSourceURL = "https://blockstream.info/api"

// Source reads the tip of a block explorer with the blockstream.info API.
type Source struct {
	BaseURL string
	Client  *http.Client
}

func NewSource(baseURL string) *Source {
	if baseURL == "" {
		baseURL = DefaultSourceURL
	}
	return &Source{BaseURL: strings.TrimSuffix(baseURL, "/"), Client: &http.Client{Timeout: 10 * time.Second}}
}

type blockStream struct {
	Id         string `json:"id"`
	Height     int64  `json:"height"`
	Timestamp  int64  `json:"timestamp"`
	Mediantime int64  `json:"mediantime"`
	Difficulty int64  `json:"difficulty"`
}

func (s *Source) Latest(ctx context.Context) (b Block, err error) {
	body, err := s.get(ctx, "/blocks/tip/hash")
	if err != nil {
		return b, err
	}
	hash := strings.TrimSpace(string(body))
	if len(hash) != 64 {
		return b, fmt.Errorf("invalid hash %q", hash)
	}
	body, err = s.get(ctx, "/block/"+hash)
	if err != nil {
		return b, err
	}
	var r blockStream
	if err = json.Unmarshal(body, &r); err != nil {
		return b, err
	}
	return Block{
		Height:     r.Height,
		Hash:       r.Id,
		MedianTime: time.Unix(r.Mediantime, 0),
		MinerTime:  time.Unix(r.Timestamp, 0),
		Difficulty: r.Difficulty,
	}, nil
}

func (s *Source) get(ctx context.Context, path string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.BaseURL+path, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Add("Accept", "application/json")
	resp, err := s.Client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("http response error code %d", resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}

// Event announces b, signed by w. A Chain trusting w.Account accepts it.
func Event(w library.Wallet, b Block) (n nostr.Event, err error) {
	n.PubKey = w.Account
	n.Kind = KindBlock
	n.CreatedAt = nostr.Timestamp(time.Now().Unix())
	n.Tags = nostr.Tags{
		{"hash", b.Hash},
		{"height", fmt.Sprintf("%d", b.Height)},
		{"difficulty", fmt.Sprintf("%d", b.Difficulty)},
		{"minertime", fmt.Sprintf("%d", b.MinerTime.Unix())},
		{"mediantime", fmt.Sprintf("%d", b.MedianTime.Unix())},
	}
	n.ID = n.GetID()
	err = n.Sign(w.PrivateKey)
	return
}
