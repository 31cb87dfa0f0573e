package fiberlog

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
)

const (
	TagPid     = "pid"
	TagLatency = "latency"
	TagStatus  = "status"
	TagMethod  = "method"
	TagPath    = "path"
	TagQuery   = "query"
	TagIP      = "ip"
	TagBody    = "body"
	TagResBody = "res_body"
	RequestID  = "request_id"
)

// bodies longer than this are cut in the log
const maxBodyLog = 4096

type data struct {
	pid   int
	start time.Time
	end   time.Time
}

// FuncTag produces the value logged under a tag
type FuncTag func(c *fiber.Ctx, d *data) interface{}

func getFuncTagMap(cfg Config) map[string]FuncTag {
	all := map[string]FuncTag{
		TagPid: func(c *fiber.Ctx, d *data) interface{} { return d.pid },
		TagLatency: func(c *fiber.Ctx, d *data) interface{} {
			return d.end.Sub(d.start).String()
		},
		TagStatus: func(c *fiber.Ctx, d *data) interface{} { return c.Response().StatusCode() },
		TagMethod: func(c *fiber.Ctx, d *data) interface{} { return c.Method() },
		TagPath:   func(c *fiber.Ctx, d *data) interface{} { return c.Path() },
		TagQuery:  func(c *fiber.Ctx, d *data) interface{} { return string(c.Request().URI().QueryString()) },
		TagIP:     func(c *fiber.Ctx, d *data) interface{} { return c.IP() },
		TagBody: func(c *fiber.Ctx, d *data) interface{} {
			if strings.HasPrefix(c.Get(fiber.HeaderContentType), fiber.MIMEMultipartForm) || len(c.Body()) == 0 {
				return ""
			}
			return cut(c.Body())
		},
		TagResBody: func(c *fiber.Ctx, d *data) interface{} {
			if c.GetRespHeader(fiber.HeaderContentType) != fiber.MIMEApplicationJSON {
				return ""
			}
			return cut(c.Response().Body())
		},
		RequestID: func(c *fiber.Ctx, d *data) interface{} {
			return c.Get(fiber.HeaderXRequestID)
		},
	}
	ftm := make(map[string]FuncTag, len(cfg.Tags))
	for _, tag := range cfg.Tags {
		if ft, ok := all[tag]; ok {
			ftm[tag] = ft
		}
	}
	return ftm
}

func cut(body []byte) string {
	if len(body) > maxBodyLog {
		return string(body[:maxBodyLog]) + "..."
	}
	return string(body)
}
