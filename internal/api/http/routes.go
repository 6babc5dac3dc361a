package httpapi

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/i474232898/epidemic-tally/internal/dates"
	"github.com/i474232898/epidemic-tally/internal/epidemic"
)

// RegisterRoutes wires the HTTP handlers into the Fiber app.
func RegisterRoutes(app *fiber.App, service *epidemic.Service) {
	v1 := app.Group("/api/v1")

	v1.Get("/reports/:date", func(c *fiber.Ctx) error {
		date, err := dates.Parse(c.Params("date"))
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		report, err := service.Report(c.UserContext(), date)
		if err != nil && !epidemic.IsCacheWrite(err) {
			return toFiberError(err)
		}

		return c.JSON(fiber.Map{
			"date":      date,
			"countries": report,
		})
	})

	v1.Get("/reports/:date/countries", func(c *fiber.Ctx) error {
		date, err := dates.Parse(c.Params("date"))
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		countries, err := service.Countries(c.UserContext(), date)
		if err != nil {
			return toFiberError(err)
		}

		return c.JSON(fiber.Map{
			"date":      date,
			"countries": countries,
		})
	})

	v1.Get("/charts", func(c *fiber.Ctx) error {
		req, err := parsePlotQuery(c)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		charts, err := service.BuildCharts(c.UserContext(), req)
		if err != nil {
			return toFiberError(err)
		}

		return c.JSON(fiber.Map{
			"request": req,
			"charts":  charts,
		})
	})
}

// parsePlotQuery reads date=dd-mm-yyyy&days=N&transpose= plus the repeatable
// countries=, scale= and metrics= values. Country names may contain commas
// ("Korea, South") so lists are never split. Field validation is left to
// PlotRequest.Validate.
func parsePlotQuery(c *fiber.Ctx) (epidemic.PlotRequest, error) {
	req := epidemic.PlotRequest{
		Countries: queryValues(c, "countries"),
		Date:      c.Query("date"),
		Metrics:   queryValues(c, "metrics"),
		Days:      1,
	}
	for _, scale := range queryValues(c, "scale") {
		req.Scales = append(req.Scales, epidemic.Scale(scale))
	}

	if v := c.Query("days"); v != "" {
		days, err := strconv.Atoi(v)
		if err != nil {
			return req, errors.New("days must be an integer")
		}
		req.Days = days
	}
	if v := c.Query("transpose"); v != "" {
		transpose, err := strconv.ParseBool(v)
		if err != nil {
			return req, errors.New("transpose must be a boolean")
		}
		req.Transpose = transpose
	}
	return req, nil
}

func queryValues(c *fiber.Ctx, key string) []string {
	var out []string
	for _, v := range c.Context().QueryArgs().PeekMulti(key) {
		out = append(out, string(v))
	}
	return out
}

// toFiberError maps pipeline failures onto HTTP status codes.
func toFiberError(err error) error {
	switch {
	case errors.Is(err, epidemic.ErrInvalidInput):
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	case errors.Is(err, epidemic.ErrNotFound), errors.Is(err, epidemic.ErrCountryUnavailable):
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	case errors.Is(err, epidemic.ErrTransport),
		errors.Is(err, epidemic.ErrEmptyPayload),
		errors.Is(err, epidemic.ErrInvalidData),
		errors.Is(err, epidemic.ErrMalformedRow):
		return fiber.NewError(fiber.StatusBadGateway, err.Error())
	default:
		return fiber.NewError(fiber.StatusInternalServerError, "failed to build report")
	}
}

// ErrorHandler renders every error as {"error": true, "message": ...}.
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	var e *fiber.Error
	if errors.As(err, &e) {
		code = e.Code
	}
	return c.Status(code).JSON(fiber.Map{
		"error":   true,
		"message": err.Error(),
	})
}
