package errmsg

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"

	"github.com/dmitrijs2005/gatewayclient/internal/client/notify"
)

// catalog keys; one message/description pair per status group
const (
	groupBadRequest   = "bad_request"
	groupUnauthorized = "unauthorized"
	groupForbidden    = "forbidden"
	groupNotFound     = "not_found"
	groupValidation   = "validation"
	groupRateLimited  = "rate_limited"
	groupServer       = "server"
	groupUnknown      = "unknown"
)

var supported = []language.Tag{language.Persian, language.English}

var defaults = map[language.Tag]map[string]Message{
	language.Persian: {
		groupBadRequest:   {"درخواست نادرست", "درخواست شما دارای مقدار یا مقادیر نادرستی است"},
		groupUnauthorized: {"خطای احراز هویت", "لطفا مجددا وارد شوید"},
		groupForbidden:    {"دسترسی غیرمجاز", "شما مجوز دسترسی به این بخش را ندارید"},
		groupNotFound:     {"یافت نشد", "منبع مورد نظر یافت نشد"},
		groupValidation:   {"خطای اعتبارسنجی", "داده‌های ارسالی معتبر نیستند"},
		groupRateLimited:  {"درخواست بیش از حد", "لطفا کمی صبر کنید و دوباره تلاش کنید"},
		groupServer:       {"خطای سرور", "مشکلی در سرور رخ داده است، لطفا بعدا تلاش کنید"},
		groupUnknown:      {"خطای ناشناخته", "لطفا مجددا تلاش کنید یا با پشتیبانی تماس بگیرید"},
	},
	language.English: {
		groupBadRequest:   {"Bad request", "Your request contains one or more invalid values"},
		groupUnauthorized: {"Authentication error", "Please sign in again"},
		groupForbidden:    {"Access denied", "You do not have permission to access this section"},
		groupNotFound:     {"Not found", "The requested resource was not found"},
		groupValidation:   {"Validation error", "The submitted data is not valid"},
		groupRateLimited:  {"Too many requests", "Please wait a moment and try again"},
		groupServer:       {"Server error", "Something went wrong on the server, please try again later"},
		groupUnknown:      {"Unknown error", "Please try again or contact support"},
	},
}

var builder = func() *catalog.Builder {
	b := catalog.NewBuilder(catalog.Fallback(language.Persian))
	for tag, groups := range defaults {
		for group, m := range groups {
			_ = b.SetString(tag, messageKey(group), m.Message)
			_ = b.SetString(tag, descriptionKey(group), m.Description)
		}
	}
	return b
}()

func messageKey(group string) string     { return group + ".message" }
func descriptionKey(group string) string { return group + ".description" }

// MatchLocale resolves a BCP 47 locale string to the closest supported
// language. Unparseable or unsupported locales resolve to Persian.
func MatchLocale(locale string) language.Tag {
	requested, err := language.Parse(locale)
	if err != nil {
		return language.Persian
	}
	_, idx, conf := language.NewMatcher(supported).Match(requested)
	if conf == language.No {
		return language.Persian
	}
	return supported[idx]
}

func newPrinter(tag language.Tag) *message.Printer {
	return message.NewPrinter(tag, message.Catalog(builder))
}

func directionOf(tag language.Tag) notify.Direction {
	base, _ := tag.Base()
	switch base.String() {
	case "fa", "ar", "he", "ur":
		return notify.RTL
	}
	return notify.LTR
}
