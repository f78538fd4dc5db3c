package httpapi

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/riskibarqy/nba-stats-viewer/internal/usecase"
)

// formBinder is implemented by every action request so HTML forms and JSON
// clients share one validated shape.
type formBinder interface {
	bindForm(form url.Values) error
}

type tabRequest struct {
	To string `json:"to" validate:"required,oneof=leaders players standings"`
}

func (r *tabRequest) bindForm(form url.Values) error {
	r.To = strings.TrimSpace(form.Get("to"))
	return nil
}

type categoryRequest struct {
	Category string `json:"category" validate:"required,oneof=3pt fg pts reb ast blk"`
}

func (r *categoryRequest) bindForm(form url.Values) error {
	r.Category = strings.ToLower(strings.TrimSpace(form.Get("category")))
	return nil
}

type openLeaderRequest struct {
	PlayerID int64  `json:"player_id" validate:"required,gt=0"`
	Name     string `json:"name" validate:"required,max=120"`
}

func (r *openLeaderRequest) bindForm(form url.Values) (err error) {
	if r.PlayerID, err = formInt64(form, "player_id"); err != nil {
		return err
	}
	r.Name = form.Get("name")
	return nil
}

type searchRequest struct {
	Query string `json:"q" validate:"max=100"`
}

func (r *searchRequest) bindForm(form url.Values) error {
	r.Query = form.Get("q")
	return nil
}

type selectPlayerRequest struct {
	PlayerID int64  `json:"player_id" validate:"required,gt=0"`
	Name     string `json:"name" validate:"required,max=120"`
	TeamID   *int64 `json:"team_id,omitempty" validate:"omitempty,gt=0"`
}

func (r *selectPlayerRequest) bindForm(form url.Values) (err error) {
	if r.PlayerID, err = formInt64(form, "player_id"); err != nil {
		return err
	}
	r.Name = form.Get("name")
	if strings.TrimSpace(form.Get("team_id")) != "" {
		teamID, err := formInt64(form, "team_id")
		if err != nil {
			return err
		}
		r.TeamID = &teamID
	}
	return nil
}

func formInt64(form url.Values, key string) (int64, error) {
	raw := strings.TrimSpace(form.Get(key))
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %s must be an integer", usecase.ErrInvalidInput, key)
	}
	return v, nil
}
