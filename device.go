package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"go.uber.org/zap"
)

// resolveDeviceUID looks up the router-internal UID for a MAC address in the
// netDev inventory. The passive (offline) group is scanned before the active
// one, and the MAC must match byte-for-byte; the caller supplies it in the
// format the router reports.
func (s *fritzSession) resolveDeviceUID(ctx context.Context, sid, mac string) (string, error) {
	form := url.Values{}
	form.Set(FieldSID, sid)
	form.Set(FieldPage, PageNetDev)
	form.Set(FieldXHRID, XHRIDAll)

	resp, err := s.postForm(ctx, form)
	if err != nil {
		return "", err
	}
	var inventory netDevData
	if err := json.Unmarshal(resp.body, &inventory); err != nil {
		return "", fmt.Errorf("%w: parsing device inventory: %v", ErrProtocol, err)
	}

	for _, group := range [][]netDevice{inventory.Data.Passive, inventory.Data.Active} {
		for _, dev := range group {
			if dev.MAC == mac {
				logger.Debug("device resolved",
					zap.String("mac", mac),
					zap.String("uid", dev.UID))
				return dev.UID, nil
			}
		}
	}
	return "", fmt.Errorf("%w: no device with MAC address %s known to the router",
		ErrDeviceNotFound, mac)
}

// firmwareVersion probes the overview page for the FRITZ!OS version, e.g.
// "7.50". The version only selects the wake request shape, so any structural
// gap (missing keys, empty value, broken JSON) degrades to FallbackFirmware
// instead of failing; an unreachable probe must not abort the wake.
func (s *fritzSession) firmwareVersion(ctx context.Context, sid string) string {
	form := url.Values{}
	form.Set(FieldSID, sid)
	form.Set(FieldPage, PageOverview)

	resp, err := s.postForm(ctx, form)
	if err != nil {
		logger.Debug("firmware probe failed, assuming legacy", zap.Error(err))
		return FallbackFirmware
	}
	var overview overviewData
	if err := json.Unmarshal(resp.body, &overview); err != nil {
		return FallbackFirmware
	}
	// nspver may carry a suffix ("7.29 Beta"); only the first token is the
	// comparison key.
	fields := strings.Fields(overview.Data.FritzOS.NSPVer)
	if len(fields) == 0 {
		return FallbackFirmware
	}
	return fields[0]
}
