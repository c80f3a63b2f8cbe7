package ama

import (
	"encoding/json"
	"maps"

	"golang.org/x/text/language"
)

const (
	sdkName    = "ripple-ama"
	sdkVersion = "0.3.0"
)

// ClientContext describes the client, its environment and the analytics
// service. The template built from Config is shared read-only; each request
// works on a copy produced by WithRequest.
type ClientContext struct {
	Client   ClientInfo        `json:"client"`
	Env      EnvInfo           `json:"env"`
	Services ServicesInfo      `json:"services"`
	Custom   map[string]string `json:"custom"`
}

type ClientInfo struct {
	ClientID       string `json:"client_id"`
	AppTitle       string `json:"app_title"`
	AppVersionName string `json:"app_version_name"`
	AppVersionCode string `json:"app_version_code"`
	AppPackageName string `json:"app_package_name"`
}

type EnvInfo struct {
	Platform        string `json:"platform"`
	PlatformVersion string `json:"platform_version"`
	Model           string `json:"model"`
	Make            string `json:"make"`
	Locale          string `json:"locale"`
}

type ServicesInfo struct {
	MobileAnalytics AnalyticsService `json:"mobile_analytics"`
}

type AnalyticsService struct {
	AppID      string `json:"app_id"`
	SDKName    string `json:"sdk_name"`
	SDKVersion string `json:"sdk_version"`
}

// NewClientContext builds the per-process template from cfg.
func NewClientContext(cfg Config) ClientContext {
	return ClientContext{
		Client: ClientInfo{
			AppTitle:       cfg.AppTitle,
			AppVersionName: cfg.AppVersionName,
			AppVersionCode: cfg.AppVersionCode,
			AppPackageName: cfg.AppPackageName,
		},
		Env: EnvInfo{
			Platform:        cfg.Platform,
			PlatformVersion: cfg.PlatformVersion,
			Model:           cfg.Model,
			Make:            cfg.Make,
		},
		Services: ServicesInfo{
			MobileAnalytics: AnalyticsService{
				AppID:      cfg.AppID,
				SDKName:    sdkName,
				SDKVersion: sdkVersion,
			},
		},
		Custom: map[string]string{},
	}
}

// WithRequest returns a copy overlaid with the request's client id and locale.
func (c ClientContext) WithRequest(clientID, locale string) ClientContext {
	out := c
	out.Custom = maps.Clone(c.Custom)
	out.Client.ClientID = clientID
	out.Env.Locale = normalizeLocale(locale)
	return out
}

// Encode serializes the context into the JSON string carried by a Batch.
func (c ClientContext) Encode() (string, error) {
	data, err := json.Marshal(c)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// DecodeClientContext parses a string produced by Encode.
func DecodeClientContext(s string) (ClientContext, error) {
	var c ClientContext
	err := json.Unmarshal([]byte(s), &c)
	return c, err
}

// normalizeLocale canonicalizes BCP 47 tags (en_us -> en-US). Unparseable
// values are kept verbatim.
func normalizeLocale(locale string) string {
	if locale == "" {
		return ""
	}
	tag, err := language.Parse(locale)
	if err != nil {
		return locale
	}
	return tag.String()
}
