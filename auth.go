package main

import (
	"context"
	"crypto/md5"
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"encoding/xml"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"unicode/utf16"

	"go.uber.org/zap"
	"golang.org/x/crypto/pbkdf2"
)

// getChallenge retrieves the one-time login challenge. The login endpoint
// answers an unauthenticated GET with a SessionInfo document whose Challenge
// element is consumed exactly once to compute the response hash.
func (s *fritzSession) getChallenge(ctx context.Context) (string, error) {
	resp, err := s.get(ctx, s.urlLogin)
	if err != nil {
		return "", err
	}
	var info sessionInfo
	if err := xml.Unmarshal(resp.body, &info); err != nil {
		return "", fmt.Errorf("%w: parsing login response: %v", ErrProtocol, err)
	}
	if info.Challenge == "" {
		return "", fmt.Errorf("%w: login response carries no challenge", ErrProtocol)
	}
	return info.Challenge, nil
}

// challengeResponse computes the credential proof for a challenge. Plain
// challenges use the legacy MD5-over-UTF-16LE scheme; challenges prefixed
// with "2$" announce the PBKDF2 scheme of FRITZ!OS 7.24 and later.
func challengeResponse(challenge, password string) (string, error) {
	if strings.HasPrefix(challenge, ChallengeV2Prefix) {
		return pbkdf2Response(challenge, password)
	}
	return md5Response(challenge, password), nil
}

// md5Response implements the legacy scheme: MD5 over the UTF-16LE encoding
// of "<challenge>-<password>", returned as "<challenge>-<hexdigest>".
// The UTF-16LE step is load-bearing; hashing the UTF-8 string instead
// produces a digest the router will reject.
func md5Response(challenge, password string) string {
	sum := md5.Sum(utf16leBytes(challenge + "-" + password))
	return challenge + "-" + hex.EncodeToString(sum[:])
}

// pbkdf2Response implements the version-2 scheme: the challenge carries two
// iteration counts and two hex salts ("2$iter1$salt1$iter2$salt2"); the
// password is stretched through both rounds of PBKDF2-SHA256 and the result
// is returned as "<salt2>$<hexdigest>".
func pbkdf2Response(challenge, password string) (string, error) {
	parts := strings.Split(challenge, "$")
	if len(parts) != 5 {
		return "", fmt.Errorf("%w: malformed v2 challenge", ErrProtocol)
	}
	iter1, err1 := strconv.Atoi(parts[1])
	iter2, err2 := strconv.Atoi(parts[3])
	salt1, err3 := hex.DecodeString(parts[2])
	salt2, err4 := hex.DecodeString(parts[4])
	if err1 != nil || err2 != nil || err3 != nil || err4 != nil || iter1 < 1 || iter2 < 1 {
		return "", fmt.Errorf("%w: malformed v2 challenge", ErrProtocol)
	}
	hash1 := pbkdf2.Key([]byte(password), salt1, iter1, sha256.Size, sha256.New)
	hash2 := pbkdf2.Key(hash1, salt2, iter2, sha256.Size, sha256.New)
	return parts[4] + "$" + hex.EncodeToString(hash2), nil
}

// utf16leBytes encodes s as UTF-16 little-endian code units. This is the
// raw byte layout the router's legacy hashing convention expects.
func utf16leBytes(s string) []byte {
	codes := utf16.Encode([]rune(s))
	buf := make([]byte, 2*len(codes))
	for i, c := range codes {
		binary.LittleEndian.PutUint16(buf[2*i:], c)
	}
	return buf
}

// authenticate performs the login handshake and returns the session ID.
// If the session has no configured password the prompt collaborator is asked
// for one without echoing. The all-zero SID is the router's way of rejecting
// the credentials and always maps to ErrAuthFailed.
func (s *fritzSession) authenticate(ctx context.Context) (string, error) {
	password := s.password
	if password == "" {
		pw, err := s.prompt()
		if err != nil {
			return "", fmt.Errorf("reading password: %w", err)
		}
		password = pw
	}

	challenge, err := s.getChallenge(ctx)
	if err != nil {
		return "", err
	}
	response, err := challengeResponse(challenge, password)
	if err != nil {
		return "", err
	}

	q := url.Values{}
	q.Set("username", s.username)
	q.Set("response", response)
	resp, err := s.get(ctx, s.urlLogin+"?"+q.Encode())
	if err != nil {
		return "", err
	}

	var info sessionInfo
	if err := xml.Unmarshal(resp.body, &info); err != nil {
		return "", fmt.Errorf("%w: parsing login response: %v", ErrProtocol, err)
	}
	if info.SID == "" {
		return "", fmt.Errorf("%w: login response carries no SID", ErrProtocol)
	}
	if info.SID == SIDNoAuth {
		if info.BlockTime > 0 {
			return "", fmt.Errorf("%w: check username and password (login blocked for %d seconds)",
				ErrAuthFailed, info.BlockTime)
		}
		return "", fmt.Errorf("%w: check username and password", ErrAuthFailed)
	}
	logger.Debug("authenticated", zap.String("username", s.username))
	return info.SID, nil
}
