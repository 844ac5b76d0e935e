package httpapi

import (
	"bytes"
	"fmt"

	"github.com/goccy/go-json"
	"github.com/valyala/fasthttp"

	"github.com/vsinha/coilplan/pkg/domain/entities"
	"github.com/vsinha/coilplan/pkg/domain/services"
	"github.com/vsinha/coilplan/pkg/infrastructure/events"
	"github.com/vsinha/coilplan/pkg/infrastructure/repositories/csv"
	"github.com/vsinha/coilplan/pkg/interfaces/cli/output"
)

const requestSource = "http"

// ConfirmResponse describes a confirmed plan
type ConfirmResponse struct {
	Assignments int                                       `json:"assignments"`
	CoilsUsed   []entities.CoilID                         `json:"coils_used"`
	Orders      map[entities.OrderID]entities.OrderStatus `json:"orders"`
}

func (s *Server) handleListCoils(ctx *fasthttp.RequestCtx) {
	snapshot, err := s.service.Snapshot(ctx)
	if err != nil {
		writeServiceError(ctx, err)
		return
	}
	writeJSON(ctx, fasthttp.StatusOK, snapshot.Coils)
}

func (s *Server) handleListOrders(ctx *fasthttp.RequestCtx) {
	snapshot, err := s.service.Snapshot(ctx)
	if err != nil {
		writeServiceError(ctx, err)
		return
	}
	writeJSON(ctx, fasthttp.StatusOK, snapshot.Orders)
}

func (s *Server) handleListLines(ctx *fasthttp.RequestCtx) {
	snapshot, err := s.service.Snapshot(ctx)
	if err != nil {
		writeServiceError(ctx, err)
		return
	}
	writeJSON(ctx, fasthttp.StatusOK, snapshot.Lines)
}

// handleImportCoils accepts a CSV document (text/csv) or a JSON array of
// coils. Coils without a length get one derived from their weight.
func (s *Server) handleImportCoils(ctx *fasthttp.RequestCtx) {
	var (
		coils  []*entities.Coil
		report *csv.ImportReport
		err    error
	)
	if isCSV(ctx) {
		coils, report, err = s.loader.ReadCoils(bytes.NewReader(ctx.PostBody()), requestSource)
	} else {
		coils, report, err = decodeCoils(ctx.PostBody())
	}
	if err != nil {
		writeError(ctx, fasthttp.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	if err := s.service.AddCoils(ctx, coils, requestSource, report.Skipped); err != nil {
		writeServiceError(ctx, err)
		return
	}
	s.finishImport(ctx, report)
}

func (s *Server) handleImportOrders(ctx *fasthttp.RequestCtx) {
	var (
		orders []*entities.Order
		report *csv.ImportReport
		err    error
	)
	if isCSV(ctx) {
		orders, report, err = s.loader.ReadOrders(bytes.NewReader(ctx.PostBody()), requestSource)
	} else {
		orders, report, err = decodeOrders(ctx.PostBody())
	}
	if err != nil {
		writeError(ctx, fasthttp.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	if err := s.service.AddOrders(ctx, orders, requestSource, report.Skipped); err != nil {
		writeServiceError(ctx, err)
		return
	}
	s.finishImport(ctx, report)
}

func (s *Server) handleImportLines(ctx *fasthttp.RequestCtx) {
	var (
		lines  []*entities.Line
		report *csv.ImportReport
		err    error
	)
	if isCSV(ctx) {
		lines, report, err = s.loader.ReadLines(bytes.NewReader(ctx.PostBody()), requestSource)
	} else {
		lines, report, err = decodeLines(ctx.PostBody())
	}
	if err != nil {
		writeError(ctx, fasthttp.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	if err := s.service.AddLines(ctx, lines, requestSource, report.Skipped); err != nil {
		writeServiceError(ctx, err)
		return
	}
	s.finishImport(ctx, report)
}

func (s *Server) finishImport(ctx *fasthttp.RequestCtx, report *csv.ImportReport) {
	if err := s.persist(ctx); err != nil {
		writeServiceError(ctx, err)
		return
	}
	writeJSON(ctx, fasthttp.StatusOK, report)
}

func (s *Server) handleOptimize(ctx *fasthttp.RequestCtx) {
	result, err := s.service.Optimize(ctx)
	if err != nil {
		writeServiceError(ctx, err)
		return
	}
	metrics, err := s.service.Summary(ctx)
	if err != nil {
		writeServiceError(ctx, err)
		return
	}
	if err := s.persist(ctx); err != nil {
		writeServiceError(ctx, err)
		return
	}
	writeJSON(ctx, fasthttp.StatusOK, output.NewReport(result, *metrics))
}

func (s *Server) handleConfirm(ctx *fasthttp.RequestCtx) {
	confirmation, err := s.service.Confirm(ctx)
	if err != nil {
		writeServiceError(ctx, err)
		return
	}
	if err := s.persist(ctx); err != nil {
		writeServiceError(ctx, err)
		return
	}

	resp := ConfirmResponse{
		Assignments: len(confirmation.Assignments),
		CoilsUsed:   confirmation.CoilsUsed(),
		Orders:      make(map[entities.OrderID]entities.OrderStatus, len(confirmation.Orders)),
	}
	for _, order := range confirmation.Orders {
		resp.Orders[order.ID] = order.Status
	}
	writeJSON(ctx, fasthttp.StatusOK, resp)
}

func (s *Server) handleClear(ctx *fasthttp.RequestCtx) {
	if err := s.service.Clear(ctx); err != nil {
		writeServiceError(ctx, err)
		return
	}
	if err := s.persist(ctx); err != nil {
		writeServiceError(ctx, err)
		return
	}
	writeJSON(ctx, fasthttp.StatusOK, map[string]string{"status": "cleared"})
}

func (s *Server) handlePlan(ctx *fasthttp.RequestCtx) {
	report, err := s.currentReport(ctx)
	if err != nil {
		writeServiceError(ctx, err)
		return
	}
	writeJSON(ctx, fasthttp.StatusOK, report)
}

func (s *Server) handlePlanWorkbook(ctx *fasthttp.RequestCtx) {
	report, err := s.currentReport(ctx)
	if err != nil {
		writeServiceError(ctx, err)
		return
	}
	f, err := output.BuildWorkbook(report)
	if err != nil {
		writeServiceError(ctx, err)
		return
	}
	defer f.Close()

	buf, err := f.WriteToBuffer()
	if err != nil {
		writeServiceError(ctx, err)
		return
	}
	ctx.SetContentType("application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	ctx.Response.Header.Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", output.XLSXFilename))
	ctx.SetStatusCode(fasthttp.StatusOK)
	ctx.SetBody(buf.Bytes())
}

func (s *Server) handleSummary(ctx *fasthttp.RequestCtx) {
	metrics, err := s.service.Summary(ctx)
	if err != nil {
		writeServiceError(ctx, err)
		return
	}
	writeJSON(ctx, fasthttp.StatusOK, metrics)
}

// EventsResponse is a page of the event log. Next is the from value that
// continues after the last event returned.
type EventsResponse struct {
	Events []events.Event `json:"events"`
	Next   int            `json:"next"`
}

// handleEvents serves GET /api/events?from=N, or ?stream=S&from=V to read a
// single stream by version
func (s *Server) handleEvents(ctx *fasthttp.RequestCtx) {
	args := ctx.QueryArgs()
	from := 1
	if args.Has("from") {
		n, err := args.GetUint("from")
		if err != nil {
			writeError(ctx, fasthttp.StatusBadRequest, "from must be a non-negative integer")
			return
		}
		from = n
	}

	resp := EventsResponse{Events: []events.Event{}, Next: from}
	if s.events == nil {
		writeJSON(ctx, fasthttp.StatusOK, resp)
		return
	}

	var (
		page []events.Event
		err  error
	)
	if stream := string(args.Peek("stream")); stream != "" {
		page, err = s.events.ReadEvents(stream, from)
		if err == nil && len(page) > 0 {
			resp.Next = page[len(page)-1].Version() + 1
		}
	} else {
		page, err = s.events.ReadAllEvents(from)
		if err == nil && len(page) > 0 {
			resp.Next = page[len(page)-1].Position() + 1
		}
	}
	if err != nil {
		writeServiceError(ctx, err)
		return
	}
	resp.Events = page
	writeJSON(ctx, fasthttp.StatusOK, resp)
}

// currentReport reports the proposed plan when there is one, else the
// confirmed plan. Unfulfilled lists the orders the forecasts cover.
func (s *Server) currentReport(ctx *fasthttp.RequestCtx) (*output.Report, error) {
	snapshot, err := s.service.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	metrics, err := s.service.Summary(ctx)
	if err != nil {
		return nil, err
	}

	report := &output.Report{
		Confirmed:   len(snapshot.Proposed) == 0 && len(snapshot.Confirmed) > 0,
		Assignments: snapshot.CurrentPlan(),
		Forecasts:   snapshot.Forecasts,
		Metrics:     *metrics,
	}
	for _, f := range snapshot.Forecasts {
		report.Unfulfilled = append(report.Unfulfilled, f.Unfulfilled...)
	}
	return report, nil
}

func decodeCoils(body []byte) ([]*entities.Coil, *csv.ImportReport, error) {
	var in []entities.Coil
	if err := json.Unmarshal(body, &in); err != nil {
		return nil, nil, err
	}
	report := &csv.ImportReport{Source: requestSource}
	coils := make([]*entities.Coil, 0, len(in))
	for i, c := range in {
		length := c.Length
		if length == 0 {
			length = services.CoilLength(c.Weight, c.Width, c.Thickness)
		}
		coil, err := entities.NewCoil(c.ID, c.Product, c.Width, c.Thickness, length, c.Weight, c.Grade, c.Status)
		if err != nil {
			skip(report, i, err)
			continue
		}
		coils = append(coils, coil)
	}
	report.Imported = len(coils)
	return coils, report, nil
}

func decodeOrders(body []byte) ([]*entities.Order, *csv.ImportReport, error) {
	var in []entities.Order
	if err := json.Unmarshal(body, &in); err != nil {
		return nil, nil, err
	}
	report := &csv.ImportReport{Source: requestSource}
	orders := make([]*entities.Order, 0, len(in))
	for i, o := range in {
		weight := o.Weight
		if weight == 0 {
			weight = services.OrderWeight(o.Width, o.Length, o.Thickness, o.Quantity)
		}
		order, err := entities.NewOrder(o.ID, o.Product, o.Width, o.Length, o.Thickness, o.Quantity, o.Grade, weight, o.Priority, o.DueDate)
		if err != nil {
			skip(report, i, err)
			continue
		}
		order.CoilPacketWeight = o.CoilPacketWeight
		order.Status = o.Status
		orders = append(orders, order)
	}
	report.Imported = len(orders)
	return orders, report, nil
}

func decodeLines(body []byte) ([]*entities.Line, *csv.ImportReport, error) {
	var in []entities.Line
	if err := json.Unmarshal(body, &in); err != nil {
		return nil, nil, err
	}
	report := &csv.ImportReport{Source: requestSource}
	lines := make([]*entities.Line, 0, len(in))
	for i, l := range in {
		id := l.ID
		if id == "" {
			id = entities.LineID(l.Name)
		}
		line, err := entities.NewLine(id, l.Name, l.MinWidth, l.MaxWidth, l.MaxThickness, l.MaxWeight, l.SpeedMpm, l.CostPerTonne)
		if err != nil {
			skip(report, i, err)
			continue
		}
		lines = append(lines, line)
	}
	report.Imported = len(lines)
	return lines, report, nil
}

func skip(report *csv.ImportReport, index int, err error) {
	report.Skipped++
	report.RowErrors = append(report.RowErrors, fmt.Sprintf("item %d: %v", index+1, err))
}
