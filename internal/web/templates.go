package web

import (
	"hash/fnv"
	"html/template"
)

var badgePalette = []string{"#f59e0b", "#8b5cf6", "#3b82f6", "#10b981", "#ef4444", "#f97316", "#06b6d4", "#ec4899"}

var funcMap = template.FuncMap{
	// typeColor picks a stable badge color per category.
	"typeColor": func(typ string) string {
		h := fnv.New32a()
		_, _ = h.Write([]byte(typ))
		return badgePalette[h.Sum32()%uint32(len(badgePalette))]
	},
}

// ── Base layout ───────────────────────────────────────────────────────────────

const tmplBase = `
{{define "base"}}<!DOCTYPE html>
<html lang="zh-CN">
<head>
<meta charset="UTF-8">
<meta name="viewport" content="width=device-width,initial-scale=1">
<title>Equipment Drop Viewer</title>
<style>
*{box-sizing:border-box;margin:0;padding:0}
body{font-family:system-ui,sans-serif;background:#0d1117;color:#c9d1d9;font-size:14px;line-height:1.5}
a{color:#58a6ff;text-decoration:none}
a:hover{text-decoration:underline}
header{background:#161b22;border-bottom:1px solid #30363d;padding:12px 16px;display:flex;gap:16px;align-items:center}
header .brand{color:#f0c14b;font-weight:700;font-size:17px}
header .stats{margin-left:auto;color:#8b949e;font-size:12px}
main{padding:16px;max-width:1200px;margin:0 auto}
.filters{display:flex;gap:8px;flex-wrap:wrap;align-items:center;margin-bottom:12px;background:#161b22;padding:8px 12px;border-radius:6px;border:1px solid #30363d}
.filters form{display:flex;gap:6px;align-items:center}
.filters label{font-size:12px;color:#8b949e}
.filters select,.filters input{background:#0d1117;border:1px solid #30363d;color:#c9d1d9;border-radius:4px;padding:4px 8px;font-size:13px}
.filters button,.btn{background:#1f6feb;border:none;color:#fff;padding:5px 12px;border-radius:4px;cursor:pointer;font-size:13px}
.btn.secondary{background:#21262d;color:#c9d1d9;border:1px solid #30363d}
.btn.disabled{opacity:.4;pointer-events:none}
table{width:100%;border-collapse:collapse}
th{text-align:left;padding:8px 10px;border-bottom:1px solid #30363d;color:#8b949e;font-weight:600;font-size:12px;text-transform:uppercase}
td{padding:7px 10px;border-bottom:1px solid #21262d}
tr:hover td{background:#161b22}
.badge{display:inline-block;padding:1px 8px;border-radius:10px;font-size:11px;font-weight:600;color:#0d1117}
.prob{color:#f0c14b;font-family:monospace}
.empty{padding:40px;text-align:center;color:#8b949e}
.pager{display:flex;gap:12px;justify-content:center;align-items:center;margin:16px 0}
.modal-bg{position:fixed;inset:0;background:rgba(0,0,0,.6);display:flex;align-items:flex-start;justify-content:center;padding-top:60px}
.modal{background:#161b22;border:1px solid #30363d;border-radius:8px;width:min(640px,92vw);max-height:80vh;overflow-y:auto;padding:20px}
.modal h2{color:#f0f6fc;font-size:17px;margin-bottom:12px}
.modal h3{color:#f0c14b;font-size:14px;margin:16px 0 8px}
.modal .close{float:right;color:#8b949e;font-size:20px}
.drop-item{padding:6px 8px;border-bottom:1px solid #21262d;display:flex;justify-content:space-between}
.diag{max-width:640px;margin:40px auto;background:#161b22;border:1px solid #f87171;border-radius:8px;padding:20px}
.diag h3{color:#f87171;text-align:center;margin-bottom:16px}
.diag ol,.diag ul{margin:8px 0 8px 22px;line-height:1.8}
.diag code{background:#0d1117;padding:2px 6px;border-radius:4px}
.dim{color:#8b949e}
</style>
</head>
<body id="top">
<header>
  <span class="brand">Equipment Drop Viewer</span>
  <span class="stats">total {{.Total}} · showing {{.Page.DisplayCount}}</span>
</header>
<main>
{{template "content" .}}
</main>
</body>
</html>{{end}}
`

// ── Index ─────────────────────────────────────────────────────────────────────

const tmplIndex = `
{{define "content"}}
{{if .Loading}}
<div class="empty">Loading data…</div>
{{else if .Failed}}{{with .Failed}}
<div class="diag">
  <h3>❌ {{.Title}}</h3>
  <p class="dim">{{.Location}}: {{.Cause}}</p>
  {{if .FileScheme}}
  <p style="margin-top:12px"><strong>Reason:</strong> {{.Reason}}</p>
  <p style="margin-top:12px"><strong>Fix (pick one):</strong></p>
  <ol>{{range .Steps}}<li><code>{{.}}</code></li>{{end}}</ol>
  {{else}}
  <p style="margin-top:12px">Please check:</p>
  <ul>{{range .Steps}}<li>{{.}}</li>{{end}}</ul>
  {{if .Reload}}<p style="margin-top:16px;text-align:center"><a class="btn" href="/reload">Reload</a></p>{{end}}
  {{end}}
</div>
{{end}}{{else}}
<div class="filters">
  <form action="/search" method="get">
    <label for="searchInput">Search</label>
    <input id="searchInput" name="q" value="{{.Page.Search}}" placeholder="equipment or monster">
    <button type="submit">Go</button>
  </form>
  <form action="/filter" method="get">
    <label for="typeFilter">Type</label>
    <select id="typeFilter" name="type" onchange="this.form.submit()">
      <option value="">All</option>
      {{range .Page.Categories}}<option value="{{.Type}}"{{if eq .Type $.Page.Category}} selected{{end}}>{{.Type}} ({{.Count}})</option>{{end}}
    </select>
  </form>
  <form action="/sort" method="get">
    <label for="sortBy">Sort</label>
    <select id="sortBy" name="by" onchange="this.form.submit()">
      {{range .SortKeys}}<option value="{{.}}"{{if eq . $.Page.SortKey}} selected{{end}}>{{.Label}}</option>{{end}}
    </select>
  </form>
  <a id="resetBtn" class="btn secondary" href="/reset">Reset</a>
</div>

{{if .Page.Empty}}
<div id="emptyState" class="empty">No matching equipment</div>
{{else}}
<table>
  <thead><tr><th>Type</th><th>Name</th><th>Best monster</th><th>Drop rate</th><th></th></tr></thead>
  <tbody id="equipmentTableBody">
  {{range .Page.Rows}}
  <tr>
    <td><span class="badge" style="background:{{typeColor .Type}}">{{.Type}}</span></td>
    <td><strong>{{.Name}}</strong></td>
    <td>{{.BestMonster}}</td>
    <td><span class="prob">{{.BestProbability}}</span></td>
    <td><a class="btn secondary" href="/detail?name={{.Name}}">Details</a></td>
  </tr>
  {{end}}
  </tbody>
</table>
{{end}}

<div class="pager">
  <a id="prevPage" class="btn secondary{{if .Page.PrevDisabled}} disabled{{end}}" href="/page?delta=-1">‹ Prev</a>
  <span id="pageInfo">{{.Page.Info}}</span>
  <a id="nextPage" class="btn secondary{{if .Page.NextDisabled}} disabled{{end}}" href="/page?delta=1">Next ›</a>
</div>
<p class="dim" style="text-align:center">showing <span id="displayCount">{{.Page.DisplayCount}}</span>{{if not .Page.Empty}} · rows {{.Page.First}}–{{.Page.Last}}{{end}}</p>

{{with .Detail}}
<div id="detailModal" class="modal-bg">
  <div class="modal">
    <a class="close" href="/detail/close">×</a>
    <h2 id="modalTitle">{{.Title}}</h2>
    <div id="modalBody">
      <p><strong>Type:</strong> <span class="badge" style="background:{{typeColor .Type}}">{{.Type}}</span></p>
      <p><strong>Best drop:</strong> {{.BestMonster}} ({{.BestProbability}})</p>
      <h3>All drop sources ({{len .Drops}} monsters)</h3>
      {{range .Drops}}
      <div class="drop-item"><strong>{{.Rank}}. {{.Monster}}</strong><span class="prob">{{.Probability}}</span></div>
      {{end}}
    </div>
  </div>
</div>
{{end}}
{{end}}
{{end}}
`
