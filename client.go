// client.go - the server-call façade (C11, spec.md §6): assembles
// dorequest.php URLs and POST bodies and hands them to a host-supplied
// callback; never performs the HTTP round trip itself, matching the
// fire-and-forget, host-arranges-delivery contract.
//
// Grounded on file_io.go's host-boundary shape (sanitize input, hand off
// to the OS, report status through a small result struct) generalized
// from the local filesystem to a remote API.

package rcheevos

import (
	"crypto/md5"
	"encoding/hex"
	"net/url"
	"strconv"
	"strings"
)

const defaultHost = "https://retroachievements.org"

// ServerRequest is what the core hands to the host: an assembled URL and
// an optional application/x-www-form-urlencoded POST body.
type ServerRequest struct {
	URL      string
	PostData string
}

// ServerCallFunc dispatches req; the host is expected to eventually call
// the supplied continuation with the raw response body and HTTP status.
// The core never calls this itself — it's the seam a host wires up.
type ServerCallFunc func(req ServerRequest, cb ServerResponseFunc, cbUserdata any)

// ServerResponseFunc is invoked by the host once a server call completes.
type ServerResponseFunc func(body string, httpStatus int, cbUserdata any)

// Client assembles requests against one RetroAchievements-compatible
// host on behalf of one logged-in user.
type Client struct {
	Host     string
	Username string
	APIToken string
}

// NewClient builds a Client against the default host.
func NewClient(username, apiToken string) *Client {
	return &Client{Host: defaultHost, Username: username, APIToken: apiToken}
}

// request builds the common {host}/dorequest.php?r=...&u=...&{params}
// URL plus a POST body carrying the API token, per spec.md §6.
func (c *Client) request(api string, params url.Values) ServerRequest {
	host := c.Host
	if host == "" {
		host = defaultHost
	}
	q := url.Values{}
	q.Set("r", api)
	q.Set("u", c.Username)
	for k, vs := range params {
		for _, v := range vs {
			q.Add(k, v)
		}
	}
	post := url.Values{}
	post.Set("t", c.APIToken)
	return ServerRequest{
		URL:      strings.TrimRight(host, "/") + "/dorequest.php?" + q.Encode(),
		PostData: post.Encode(),
	}
}

// AwardAchievementRequest builds the request that submits an unlock for
// achievementID, optionally in hardcore mode.
func (c *Client) AwardAchievementRequest(achievementID uint32, hardcore bool) ServerRequest {
	params := url.Values{}
	params.Set("a", strconv.FormatUint(uint64(achievementID), 10))
	if hardcore {
		params.Set("h", "1")
	}
	return c.request("awardachievement", params)
}

// SubmitLboardEntryRequest builds the request that submits score for
// lboardID, signing it with md5(lboard_id.username.lboard_id) as
// required by the submit endpoint (spec.md §6).
func (c *Client) SubmitLboardEntryRequest(lboardID uint32, score int64) ServerRequest {
	params := url.Values{}
	idStr := strconv.FormatUint(uint64(lboardID), 10)
	params.Set("i", idStr)
	params.Set("v", signLboardSubmit(idStr, c.Username))
	req := c.request("submitlbentry", params)
	req.PostData += "&score=" + url.QueryEscape(strconv.FormatInt(score, 10))
	return req
}

// signLboardSubmit computes md5(lboardID.username.lboardID), hex-encoded.
func signLboardSubmit(lboardID, username string) string {
	sum := md5.Sum([]byte(lboardID + "." + username + "." + lboardID))
	return hex.EncodeToString(sum[:])
}
