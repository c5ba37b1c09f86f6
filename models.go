package main

import "encoding/xml"

// sessionInfo is the XML document returned by /login_sid.lua. BlockTime is
// the number of seconds the router refuses further login attempts after
// repeated failures.
type sessionInfo struct {
	XMLName   xml.Name `xml:"SessionInfo"`
	SID       string   `xml:"SID"`
	Challenge string   `xml:"Challenge"`
	BlockTime int      `xml:"BlockTime"`
}

// netDevice is one entry of the netDev inventory. UID is the router-internal
// identifier the wake endpoint expects; it is distinct from the MAC address.
type netDevice struct {
	MAC  string `json:"mac"`
	UID  string `json:"UID"`
	Name string `json:"name"`
}

// netDevData is the device inventory returned by data.lua for page=netDev,
// partitioned into passive (offline) and active (online) groups.
type netDevData struct {
	Data struct {
		Passive []netDevice `json:"passive"`
		Active  []netDevice `json:"active"`
	} `json:"data"`
}

// overviewData carries the firmware version out of the overview page.
// nspver looks like "7.50" or "7.29 Beta", only the first token matters.
type overviewData struct {
	Data struct {
		FritzOS struct {
			NSPVer string `json:"nspver"`
		} `json:"fritzos"`
	} `json:"data"`
}

// wakeData is the JSON wake response shape used by newer firmware.
type wakeData struct {
	Data struct {
		BtnWake string `json:"btn_wake"`
	} `json:"data"`
}

// WakeResult reports a completed wake operation in relay mode.
type WakeResult struct {
	Device string `json:"device"`
	MAC    string `json:"mac"`
	UID    string `json:"uid"`
}

// Response is the standard JSON envelope for all relay API responses.
type Response struct {
	Code   int         `json:"code"`
	Status string      `json:"status"`
	Data   interface{} `json:"data,omitempty"`
	Error  string      `json:"error,omitempty"`
}
