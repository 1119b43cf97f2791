package render

const pageTmpl = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>{{.Title}}</title>
{{- if .Pending}}
<meta http-equiv="refresh" content="2">
{{- end}}
<style>
body { font-family: -apple-system, "Segoe UI", Helvetica, Arial, sans-serif; margin: 0; color: #333; }
header { padding: 12px 20px; display: flex; gap: 12px; align-items: center; }
.banner { margin: 0 20px 12px; padding: 10px 14px; border-radius: 3px; background: #f1f3f5; }
.banner.error { background: #fdecea; color: #b71c1c; }
.cell { stroke: #e0e0e0; stroke-width: 1; }
.state { fill: transparent; stroke: #fff; cursor: pointer; }
.state.active { stroke: #333; }
.label { font-size: 11px; fill: #555; pointer-events: none; }
.area { cursor: pointer; }
.modal { position: fixed; inset: 0; z-index: 10; }
.modal .backdrop { position: absolute; inset: 0; background: rgba(0,0,0,0.4); }
.modal-content { position: relative; margin: 5vh auto; background: #fff; padding: 16px; width: 85%; border-radius: 4px; }
.close { position: absolute; top: 8px; right: 14px; font-size: 28px; color: #aaa; text-decoration: none; }
.close:hover { color: #000; }
.bar:hover { opacity: {{.HoverOpacity}}; }
.axis text { font-size: 10px; fill: #555; }
.axis line, .axis path { stroke: #ccc; }
.tooltip { position: absolute; background-color: white; border: 1px dotted #333; border-radius: 3px; padding: 3px 3px 15px; font-size: 12px; opacity: 0; pointer-events: none; }
.nodata { color: #777; }
</style>
</head>
<body>
<header>
<form method="get" action="/">
<select id="selectButton" name="metric" onchange="this.form.submit()">
{{- range .Metrics}}
<option value="{{.}}"{{if eq . $.Metric}} selected{{end}}>{{.}}</option>
{{- end}}
</select>
<input type="hidden" name="w" value="{{num .Viewport.Width}}">
<input type="hidden" name="h" value="{{num .Viewport.Height}}">
<noscript><button type="submit">Show</button></noscript>
</form>
{{- if .LoadedAt}}<small>data loaded {{.LoadedAt}}</small>{{end}}
</header>
{{- if .Failed}}
<div class="banner error" role="alert">Failed to load data: {{.Error}}</div>
{{- else if .Pending}}
<div class="banner" role="status">Loading data&hellip;</div>
{{- end}}
{{- with .Scene}}
<div id="vis" align="center">
<svg width="{{num .Viewport.Width}}" height="{{num .Viewport.Height}}">
<g class="gridlines" transform="translate({{$.Margin}},{{$.Margin}})">
{{- range .Background}}
<g class="row">
{{- range .}}<rect class="cell" x="{{num .X}}" y="{{num .Y}}" width="{{num .Width}}" height="{{num .Height}}" fill="white"></rect>{{end}}
</g>
{{- end}}
</g>
<g class="gridmap" transform="translate({{$.Margin}},{{$.Margin}})">
{{- range $t := .Tiles}}
<a href="{{$.ToggleURL $t.State}}"><rect class="state {{$t.Code}}{{if $.IsOpen $t.State}} active{{end}}" x="{{num $t.Rect.X}}" y="{{num $t.Rect.Y}}" width="{{num $t.Rect.Width}}" height="{{num $t.Rect.Height}}"><title>{{$t.State}}</title></rect></a>
<text class="label {{$t.Code}}" x="{{num $t.LabelX}}" y="{{num $t.LabelY}}" style="text-anchor: start">{{$t.Code}}</text>
{{- with $t.Mini}}
<g class="mini {{$t.Code}}" transform="translate({{num .X}},{{num .Y}})">
<path class="line" d="{{.Line}}" fill="none" stroke="{{$t.Color}}" stroke-width="1"></path>
<a href="{{$.ToggleURL $t.State}}"><path class="area" d="{{.Area}}" fill="{{$t.Color}}" opacity="{{$.MiniOpacity}}"></path></a>
</g>
{{- end}}
{{- end}}
</g>
</svg>
</div>
{{- with .Overlay}}
<div id="myModal" class="modal" style="display: block">
<a class="backdrop" href="{{$.CloseURL}}" aria-label="Close"></a>
<div class="modal-content">
<a class="close" href="{{$.CloseURL}}" aria-label="Close">&times;</a>
<svg id="graphTitle" width="{{num .Width}}" height="30"><text transform="translate({{num (half .Width)}},20)" style="text-anchor: middle; font-size: {{.TitleFontSize}}">{{.Title}}</text></svg>
<div id="graphModal">
<svg width="{{num (add .Width .Padding)}}" height="{{num (add .Height .Padding)}}">
<g class="x axis" transform="translate({{num .BarOffset}},{{num .Height}})">
<line x1="{{num .Padding}}" x2="{{num (sub .Width .Padding)}}"></line>
{{- range .XTicks}}
<text x="{{num .Pos}}" y="16" style="text-anchor: middle">{{.Label}}</text>
{{- end}}
</g>
<g class="y axis" transform="translate({{num .YAxisOffset}},0)">
{{- range .YTicks}}
<text x="-4" y="{{num .Pos}}" dy="0.32em" style="text-anchor: end">{{.Label}}</text>
{{- end}}
</g>
<text transform="rotate(-90)" y="{{num (mul .Padding 0.25)}}" x="{{num (neg (half .Height))}}" dy="1em" style="text-anchor: middle; font-size: {{.LabelFontSize}}">{{.YLabel}}</text>
{{- $c := .}}
{{- range .Bars}}
<rect class="bar" fill="{{$c.Color}}" opacity="{{$.RestOpacity}}" transform="translate({{num $c.BarOffset}},0)" x="{{num .X}}" y="{{num .Y}}" width="{{num .Width}}" height="{{num .Height}}" data-tip="{{.Tooltip}}"><title>{{.Tooltip}}</title></rect>
{{- end}}
</svg>
</div>
{{- if not .Found}}
<p class="nodata">No data for {{.State}}.</p>
{{- end}}
<div id="graphInfo"><div class="tooltip"></div></div>
</div>
</div>
<script>
(function () {
  var tip = document.querySelector("#graphInfo .tooltip");
  document.querySelectorAll("#graphModal .bar").forEach(function (bar) {
    bar.addEventListener("mousemove", function (ev) {
      tip.textContent = bar.getAttribute("data-tip");
      tip.style.left = ev.pageX + "px";
      tip.style.top = ev.pageY + "px";
      tip.style.opacity = 1;
    });
    bar.addEventListener("mouseout", function () { tip.style.opacity = 0; });
  });
})();
</script>
{{- end}}
{{- end}}
</body>
</html>
`
