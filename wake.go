package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"go.uber.org/zap"
)

// sendWake asks the router to wake the device identified by uid. Firmware up
// to and including 7.24 expects the wake form on a differently named page
// ("edit_device2"); the probe result decides which shape is sent. Success is
// detected from the response format, since old and new firmware answer the
// same logical action differently.
func (s *fritzSession) sendWake(ctx context.Context, sid, uid string) error {
	page := PageEditDev
	fw := s.firmwareVersion(ctx, sid)
	if firmwareAtMost(fw, LegacyFirmwareMax) {
		page += LegacyPageSuffix
	}
	logger.Debug("sending wake request",
		zap.String("uid", uid),
		zap.String("firmware", fw),
		zap.String("page", page))

	form := url.Values{}
	form.Set(FieldSID, sid)
	form.Set(FieldDev, uid)
	form.Set(FieldOldPage, OldPageValue)
	form.Set(FieldPage, page)
	form.Set(FieldBtnWake, "")

	resp, err := s.postForm(ctx, form)
	if err != nil {
		return err
	}
	if !wakeSucceeded(resp) {
		return fmt.Errorf("%w: router did not confirm the request", ErrWakeFailed)
	}
	return nil
}

// wakeSucceeded is the single outcome-detection point for both response
// formats: newer firmware answers JSON with data.btn_wake == "ok", older
// firmware answers HTML that embeds the netDev page marker.
func wakeSucceeded(resp *rawResponse) bool {
	if resp.isJSON() {
		var result wakeData
		if err := json.Unmarshal(resp.body, &result); err != nil {
			return false
		}
		return result.Data.BtnWake == WakeOKValue
	}
	return strings.Contains(string(resp.body), WakeLegacyMarker)
}
