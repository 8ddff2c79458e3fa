package app

import (
	"errors"
	"fmt"

	"github.com/alexanderramin/sitetrack/internal/domain"
	"github.com/alexanderramin/sitetrack/internal/gateway"
)

// Placement tells the UI where to show an outcome message.
type Placement string

const (
	PlaceNone          Placement = ""
	PlaceInline        Placement = "inline"
	PlaceBanner        Placement = "banner"
	PlaceRenameForm    Placement = "rename_form"
	PlaceDeleteControl Placement = "delete_control"
	PlaceBlocking      Placement = "blocking"
)

// Outcome is the result of one dashboard intent.
type Outcome struct {
	OK bool
	// Refresh asks the UI to re-fetch the worksheet list and the open
	// project from the backend.
	Refresh   bool
	Message   string
	Placement Placement
	// Hint is an advisory note shown after a successful save.
	Hint string
	Err  error

	// Worksheet is the project affected, e.g. the one just created.
	Worksheet gateway.Worksheet
}

func success(msg string) Outcome {
	return Outcome{OK: true, Refresh: true, Message: msg}
}

func failure(err error) Outcome {
	msg, place := Describe(err)
	return Outcome{Message: msg, Placement: place, Err: err}
}

var fieldNames = map[string]string{
	"status":   "진행상태",
	"progress": "진행률",
	"row":      "작업 행",
	"title":    "프로젝트 이름",
}

// Describe turns an error into a user-facing message and its placement.
func Describe(err error) (string, Placement) {
	var ve *domain.ValidationError
	switch {
	case err == nil:
		return "", PlaceNone
	case errors.As(err, &ve):
		switch ve.Field {
		case "progress":
			return "진행률은 0에서 100 사이의 정수여야 합니다.", PlaceInline
		case "status":
			return "진행상태는 예정, 진행중, 완료, 지연 중 하나여야 합니다.", PlaceInline
		case "title":
			return fmt.Sprintf("프로젝트 이름이 올바르지 않습니다 (%s).", ve.Message), PlaceRenameForm
		}
		name := fieldNames[ve.Field]
		if name == "" {
			name = ve.Field
		}
		return fmt.Sprintf("%s 값이 올바르지 않습니다 (%s).", name, ve.Message), PlaceInline
	case errors.Is(err, gateway.ErrBackendUnavailable):
		return "스프레드시트에 연결할 수 없습니다. 잠시 후 다시 시도하세요.", PlaceBanner
	case errors.Is(err, gateway.ErrDuplicateTitle):
		return "같은 이름의 프로젝트가 이미 있습니다.", PlaceRenameForm
	case errors.Is(err, gateway.ErrLastWorksheet):
		return "마지막 남은 시트는 삭제할 수 없습니다.", PlaceDeleteControl
	case errors.Is(err, gateway.ErrMalformedSheet):
		return "시트 형식이 올바르지 않습니다. 1행에 머리글이 있어야 합니다.", PlaceBlocking
	case errors.Is(err, gateway.ErrWorksheetNotFound):
		return "프로젝트를 찾을 수 없습니다. 목록을 새로 고치세요.", PlaceBanner
	default:
		return "알 수 없는 오류가 발생했습니다: " + err.Error(), PlaceBanner
	}
}
