package logfields

import "go.uber.org/zap"

// CheckPath is the name of the installation check path that answered, e.g.
// "coverage_api" or "github_app_installation".
func CheckPath(val string) zap.Field {
	return zap.String("coverage.check_path", val)
}

func HTTPStatus(val int) zap.Field {
	return zap.Int("http_response_code", val)
}
