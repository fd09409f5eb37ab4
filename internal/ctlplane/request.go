// Copyright (C) 2026 Ben Grimm. Licensed under AGPL-3.0 (https://www.gnu.org/licenses/agpl-3.0.txt)

package ctlplane

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"grimm.is/ifpolicyd/internal/errors"
	"grimm.is/ifpolicyd/internal/netinfo"
)

// maxBodyBytes bounds one request body. The control protocol carries small
// documents; anything larger is a malformed request.
const maxBodyBytes = 1 << 20

// Request is one parsed unit of work read from a connection. A request
// that failed to parse is carried in the invalid state rather than
// aborting the exchange, so the peer still receives a response.
type Request struct {
	Verb string
	Path string
	Body string

	// ParseErr marks the request invalid. Execution is skipped and the
	// error is surfaced in the response.
	ParseErr error
}

// Invalid reports whether the request failed to parse.
func (r *Request) Invalid() bool {
	return r.ParseErr != nil
}

// Response is the result of executing a request.
type Response struct {
	Code int
	Body string
}

// codeTag maps result codes onto their wire tags.
func codeTag(code int) string {
	switch code {
	case netinfo.CodeOK:
		return "OK"
	case netinfo.CodeBadRequest:
		return "Bad-Request"
	case netinfo.CodeNotFound:
		return "Not-Found"
	case netinfo.CodeMethodNotAllowed:
		return "Method-Not-Allowed"
	default:
		return "Error"
	}
}

// ParseRequest reads one request from r. The wire format is a single
// "VERB /path" line followed by an optional body running to EOF; the
// client half-closes its write side to delimit the body. ParseRequest
// always returns a Request; parse failures are recorded on it.
func ParseRequest(r io.Reader) *Request {
	req := &Request{}
	br := bufio.NewReader(io.LimitReader(r, maxBodyBytes))

	line, err := br.ReadString('\n')
	if err != nil && line == "" {
		req.ParseErr = errors.Wrap(err, errors.KindValidation, "empty request")
		return req
	}
	line = strings.TrimRight(line, "\r\n")

	fields := strings.Fields(line)
	if len(fields) != 2 {
		req.ParseErr = errors.Errorf(errors.KindValidation, "malformed request line %q", line)
		return req
	}

	verb, path := fields[0], fields[1]
	if verb != strings.ToUpper(verb) || verb == "" {
		req.ParseErr = errors.Errorf(errors.KindValidation, "malformed verb %q", verb)
		return req
	}
	if !strings.HasPrefix(path, "/") {
		req.ParseErr = errors.Errorf(errors.KindValidation, "malformed path %q", path)
		return req
	}

	body, err := io.ReadAll(br)
	if err != nil {
		req.ParseErr = errors.Wrap(err, errors.KindValidation, "reading request body")
		return req
	}

	req.Verb = verb
	req.Path = path
	req.Body = string(body)
	return req
}

// Write serializes the response onto w: a "code tag" status line followed
// by the payload.
func (resp *Response) Write(w io.Writer) error {
	if _, err := fmt.Fprintf(w, "%d %s\n", resp.Code, codeTag(resp.Code)); err != nil {
		return err
	}
	if resp.Body != "" {
		if _, err := io.WriteString(w, resp.Body); err != nil {
			return err
		}
	}
	return nil
}

// ReadResponse parses a response from r, for use by clients.
func ReadResponse(r io.Reader) (*Response, error) {
	br := bufio.NewReader(r)
	line, err := br.ReadString('\n')
	if err != nil && line == "" {
		return nil, errors.Wrap(err, errors.KindUnavailable, "no response")
	}
	fields := strings.Fields(strings.TrimRight(line, "\r\n"))
	if len(fields) < 1 {
		return nil, errors.Errorf(errors.KindValidation, "malformed status line %q", line)
	}
	code, err := strconv.Atoi(fields[0])
	if err != nil {
		return nil, errors.Errorf(errors.KindValidation, "malformed status code %q", fields[0])
	}
	body, err := io.ReadAll(br)
	if err != nil {
		return nil, errors.Wrap(err, errors.KindUnavailable, "reading response body")
	}
	return &Response{Code: code, Body: string(body)}, nil
}
