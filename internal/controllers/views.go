package controllers

import (
	"fmt"
	"html/template"
	"io"
	"strings"
	"time"

	"github.com/KaranKool/mishtee-mitra/internal/delivery"
	"github.com/KaranKool/mishtee-mitra/internal/models"
	"github.com/KaranKool/mishtee-mitra/internal/routes"
	"github.com/KaranKool/mishtee-mitra/internal/utils"
)

// Hub is the dispatch point distances are measured from.
type Hub struct {
	Latitude  float64
	Longitude float64
}

// pageData is everything the page template reads. Views never see the
// gateway, only the snapshot taken after the last event.
type pageData struct {
	ProductName string
	View        delivery.View
	Loading     bool
	Error       string
	Alert       string
	Notice      string
	Online      bool
	AgentName   string
	AgentID     string
	Recipient   string
	Delivered   string
	Job         *jobCard
	Routes      routeSet
}

type jobCard struct {
	ID               string
	Status           string
	StatusClass      string
	Quantity         string
	Payment          string
	CustomerName     string
	Address          string
	CreatedLocal     string
	MapURL           string
	HasCoordinates   bool
	DistanceKm       string
	ETA              string
	CanStartRoute    bool
	CanMarkDelivered bool
}

type routeSet struct {
	Home, Login, Logout                              string
	JobStartRoute, JobMarkDelivered, JobToggleOnline string
	PODConfirm, PODCancel, SuccessNext, AlertDismiss string
}

var allRoutes = routeSet{
	Home:             routes.Home,
	Login:            routes.Login,
	Logout:           routes.Logout,
	JobStartRoute:    routes.JobStartRoute,
	JobMarkDelivered: routes.JobMarkDelivered,
	JobToggleOnline:  routes.JobToggleOnline,
	PODConfirm:       routes.PODConfirm,
	PODCancel:        routes.PODCancel,
	SuccessNext:      routes.SuccessNext,
	AlertDismiss:     routes.AlertDismiss,
}

func newPageData(s delivery.State, hub *Hub, notice string) pageData {
	d := pageData{
		ProductName: utils.ProductName,
		View:        s.View,
		Loading:     s.Loading,
		Error:       s.Error,
		Alert:       s.Alert,
		Notice:      notice,
		Online:      s.Online,
		AgentName:   s.Agent.DisplayName(),
		AgentID:     agentID(s.Agent),
		Recipient:   s.Recipient,
		Delivered:   s.DeliveredJobID,
		Routes:      allRoutes,
	}
	if s.Job != nil {
		d.Job = newJobCard(s, hub)
	}
	return d
}

func newJobCard(s delivery.State, hub *Hub) *jobCard {
	j := s.Job
	card := &jobCard{
		ID:               j.ID,
		Status:           string(j.Status),
		StatusClass:      strings.ToLower(strings.ReplaceAll(string(j.Status), " ", "-")),
		Quantity:         j.Quantity,
		Payment:          j.Payment,
		CustomerName:     j.CustomerName,
		Address:          j.Address,
		MapURL:           utils.MapURL(j.Latitude, j.Longitude),
		HasCoordinates:   j.HasCoordinates(),
		CanStartRoute:    s.CanStartRoute(),
		CanMarkDelivered: s.CanMarkDelivered(),
	}
	card.CreatedLocal = localCreatedAt(j)
	if hub != nil && j.HasCoordinates() {
		km := utils.DistanceKm(hub.Latitude, hub.Longitude, *j.Latitude, *j.Longitude)
		card.DistanceKm = fmt.Sprintf("%.1f km", km)
		card.ETA = fmt.Sprintf("%d Mins", utils.EstimatedMinutes(km))
	}
	return card
}

func agentID(a *models.Agent) string {
	if a == nil {
		return ""
	}
	return a.ID
}

// localCreatedAt renders the assignment time in the drop point's zone, or
// in UTC when the drop point has no coordinates.
func localCreatedAt(j *models.Job) string {
	if j.CreatedAt.IsZero() {
		return ""
	}
	loc := time.UTC
	if j.HasCoordinates() {
		loc = utils.LocationForPoint(*j.Latitude, *j.Longitude)
	}
	return j.CreatedAt.In(loc).Format("02 Jan 15:04 MST")
}

func renderPage(w io.Writer, d pageData) error {
	return pageTemplate.ExecuteTemplate(w, "page", d)
}

var pageTemplate = template.Must(template.New("views").Parse(pageHTML))

const pageHTML = `{{define "page"}}<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8">
  <meta name="viewport" content="width=device-width, initial-scale=1">
  <title>{{.ProductName}}</title>
  <style>
    body { font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", sans-serif; margin: 0; background: #f6f3ee; color: #222; }
    header { background: #8b1e3f; color: #fff; padding: 14px 18px; display: flex; justify-content: space-between; align-items: center; }
    main { max-width: 480px; margin: 0 auto; padding: 18px; }
    .card { background: #fff; border-radius: 12px; padding: 16px; margin-bottom: 14px; box-shadow: 0 1px 3px rgba(0,0,0,.08); }
    .error { color: #b00020; margin: 8px 0; }
    .notice { background: #fff4d6; padding: 10px; border-radius: 8px; margin-bottom: 12px; }
    .alert { position: fixed; inset: 0; background: rgba(0,0,0,.45); display: flex; align-items: center; justify-content: center; }
    .alert .card { max-width: 360px; }
    .badge { display: inline-block; padding: 3px 8px; border-radius: 10px; font-size: 12px; background: #eee; }
    .badge.pending { background: #fde7b0; }
    .badge.out-for-delivery { background: #cfe3ff; }
    .badge.delivered { background: #c8f0d0; }
    .badge.payment { background: #eff6ff; color: #2563eb; }
    .tiles { display: flex; gap: 10px; }
    .tiles > div { flex: 1; }
    button { width: 100%; padding: 12px; border: 0; border-radius: 8px; font-size: 16px; background: #8b1e3f; color: #fff; margin-top: 8px; }
    button.secondary { background: #ddd; color: #222; }
    button[disabled] { opacity: .5; }
    input { width: 100%; box-sizing: border-box; padding: 12px; font-size: 16px; border: 1px solid #ccc; border-radius: 8px; }
    form.inline { display: inline; }
    .muted { color: #777; font-size: 13px; }
  </style>
</head>
<body>
  <header>
    <strong>{{.ProductName}}</strong>
    {{if ne .View "LOGIN"}}
    <form class="inline" method="post" action="{{.Routes.Logout}}"><button class="secondary" type="submit"{{if .Loading}} disabled{{end}}>Logout</button></form>
    {{end}}
  </header>
  <main>
    {{if .Notice}}<div class="notice">{{.Notice}}</div>{{end}}
    {{if eq .View "LOGIN"}}{{template "login" .}}{{end}}
    {{if eq .View "DASHBOARD"}}{{template "dashboard" .}}{{end}}
    {{if eq .View "POD"}}{{template "pod" .}}{{end}}
    {{if eq .View "SUCCESS"}}{{template "success" .}}{{end}}
  </main>
  {{if .Alert}}
  <div class="alert" role="alertdialog">
    <div class="card">
      <p>{{.Alert}}</p>
      <form method="post" action="{{.Routes.AlertDismiss}}"><button type="submit">OK</button></form>
    </div>
  </div>
  {{end}}
</body>
</html>{{end}}

{{define "login"}}
<div class="card">
  <h2>Partner Login</h2>
  <form method="post" action="{{.Routes.Login}}">
    <input type="tel" name="phone_number" placeholder="Registered phone number" autocomplete="tel">
    {{if .Error}}<p class="error">{{.Error}}</p>{{end}}
    <button type="submit"{{if .Loading}} disabled{{end}}>{{if .Loading}}Checking...{{else}}Login{{end}}</button>
  </form>
</div>
{{end}}

{{define "dashboard"}}
<div class="card">
  <div>Welcome, <strong>{{.AgentName}}</strong></div>
  {{if .AgentID}}<div class="muted">Partner ID: #{{.AgentID}}</div>{{end}}
  <form class="inline" method="post" action="{{.Routes.JobToggleOnline}}">
    <button class="secondary" type="submit">{{if .Online}}AGENT ONLINE{{else}}AGENT OFFLINE{{end}}</button>
  </form>
</div>
{{with .Job}}
<div class="card">
  <div class="muted">Order #{{.ID}}</div>
  <h3>{{.CustomerName}}</h3>
  {{if .Payment}}<span class="badge payment">COD: {{.Payment}}</span>{{end}}
  <p>{{.Address}}</p>
  <p><span class="badge {{.StatusClass}}">{{.Status}}</span>{{if .Quantity}} &middot; Qty {{.Quantity}}{{end}}</p>
  {{if .CreatedLocal}}<p class="muted">Assigned {{.CreatedLocal}}</p>{{end}}
  <p><a href="{{.MapURL}}" target="_blank" rel="noopener">Open map</a>{{if not .HasCoordinates}} <span class="muted">(approximate)</span>{{end}}</p>
  {{if .CanStartRoute}}
  <form method="post" action="{{$.Routes.JobStartRoute}}"><button type="submit"{{if $.Loading}} disabled{{end}}>Start Route</button></form>
  {{end}}
  {{if .CanMarkDelivered}}
  <form method="post" action="{{$.Routes.JobMarkDelivered}}"><button type="submit"{{if $.Loading}} disabled{{end}}>Mark as Delivered</button></form>
  {{end}}
</div>
{{if .DistanceKm}}
<div class="card tiles">
  <div><div class="muted">Est. Time</div><strong>{{.ETA}}</strong></div>
  <div><div class="muted">Distance</div><strong>{{.DistanceKm}}</strong></div>
</div>
{{end}}
{{else}}
<div class="card">
  <h3>No active assignments</h3>
  <p class="muted">You are all caught up. New orders will show here once assigned.</p>
</div>
{{end}}
{{end}}

{{define "pod"}}
<div class="card">
  <h2>Proof of Delivery</h2>
  {{with .Job}}<p class="muted">Order #{{.ID}} for {{.CustomerName}}</p>{{end}}
  <form method="post" action="{{.Routes.PODConfirm}}">
    <input type="text" name="recipient" placeholder="Received by" value="{{.Recipient}}">
    <button type="submit"{{if .Loading}} disabled{{end}}>Confirm Delivery</button>
  </form>
  <form method="post" action="{{.Routes.PODCancel}}"><button class="secondary" type="submit"{{if .Loading}} disabled{{end}}>Cancel</button></form>
</div>
{{end}}

{{define "success"}}
<div class="card">
  <h2>Delivered!</h2>
  <p>Order #{{.Delivered}} has been marked as delivered.</p>
  <form method="post" action="{{.Routes.SuccessNext}}"><button type="submit"{{if .Loading}} disabled{{end}}>Find Next Assignment</button></form>
</div>
{{end}}
`
