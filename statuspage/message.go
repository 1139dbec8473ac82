package statuspage

import "net/http"

// StatusMessage returns a short, human-readable description of the given HTTP
// status code.
func StatusMessage(statusCode int) string {
	switch statusCode {
	case http.StatusBadRequest:
		return "Your browser sent a request this site could not understand."
	case http.StatusForbidden:
		return "You do not have access to this page."
	case http.StatusNotFound:
		return "The page you're looking for doesn't exist."
	case http.StatusMethodNotAllowed:
		return "That method is not supported here."
	case http.StatusRequestEntityTooLarge:
		return "Your browser sent a request that's too large to process."
	case http.StatusTooManyRequests:
		return "You're sending requests too quickly, please slow down and try again."

	case http.StatusInternalServerError:
		return "Something went wrong on our side."
	case http.StatusBadGateway:
		return "The site could not be reached, please try again."
	case http.StatusServiceUnavailable:
		return "The site is temporarily unavailable, please try again."
	}

	if 400 <= statusCode && statusCode <= 599 {
		return "We're sorry, something went wrong!"
	}

	return "That's all we know."
}
