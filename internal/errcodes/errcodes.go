// Package errcodes maps Unisender API error codes to readable messages.
package errcodes

// DefaultMessage is returned for codes missing from Common.
const DefaultMessage = "Unknown error occurred while calling Unisender API"

// Unspecified is the code for failures the API did not name.
const Unspecified = "unspecified"

// Common holds the error codes shared by all API methods.
var Common = map[string]string{
	Unspecified:                               "Unspecified error, see the error message for details",
	"invalid_api_key":                         "Invalid API key",
	"access_denied":                           "Access denied",
	"unknown_method":                          "Unknown API method",
	"invalid_arg":                             "Invalid argument value",
	"not_enough_money":                        "Not enough money on the account",
	"retry_later":                             "Temporary failure, retry later",
	"api_call_limit_exceeded_for_api_key":     "API call limit exceeded for the API key",
	"api_call_limit_exceeded_for_ip":          "API call limit exceeded for the IP address",
	"method_is_not_available_for_the_api_key": "Method is not available for the API key",
	"limit_exceeded":                          "Account limit exceeded",
}

// Message resolves code to a message. Unknown codes get DefaultMessage.
func Message(code string) string {
	if msg, ok := Common[code]; ok {
		return msg
	}
	return DefaultMessage
}

// Known reports whether code is in the catalog.
func Known(code string) bool {
	_, ok := Common[code]
	return ok
}
