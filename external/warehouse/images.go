package warehouse

import (
	"strconv"
	"strings"
)

const defaultImageCDN = "https://cdn.nba.com"

// Images builds CDN asset URLs from numeric ids.
type Images struct {
	base string
}

func NewImages(base string) Images {
	base = strings.TrimRight(strings.TrimSpace(base), "/")
	if base == "" {
		base = defaultImageCDN
	}
	return Images{base: base}
}

func (i Images) HeadshotURL(playerID int64) string {
	if playerID <= 0 {
		return ""
	}
	return i.base + "/headshots/nba/latest/260x190/" + strconv.FormatInt(playerID, 10) + ".png"
}

func (i Images) TeamLogoURL(teamID int64) string {
	if teamID <= 0 {
		return ""
	}
	return i.base + "/logos/nba/" + strconv.FormatInt(teamID, 10) + "/global/L/logo.svg"
}
