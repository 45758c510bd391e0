package http

import (
	"html/template"
	"net/http"

	"go.uber.org/zap"
)

// handleChartPage serves the interactive strategy chart. Defaults for
// the widgets come from the current config; everything after page load
// runs over the websocket.
func handleChartPage(svc *Service) http.HandlerFunc {
	tmpl := template.Must(template.New("chart").Parse(chartPageHTML))

	return func(w http.ResponseWriter, r *http.Request) {
		defaults := svc.Defaults()
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if err := tmpl.Execute(w, defaults); err != nil {
			svc.logger.Error("failed to render chart page", zap.Error(err))
		}
	}
}

const chartPageHTML = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>SMA Crossover Strategy</title>
<script src="https://cdn.jsdelivr.net/npm/chart.js@4.4.1/dist/chart.umd.min.js"></script>
<style>
  body { margin: 0; font-family: -apple-system, "Segoe UI", sans-serif; background: #111827; color: #e5e7eb; display: flex; }
  #sidebar { width: 240px; padding: 20px; background: #1f2937; min-height: 100vh; box-sizing: border-box; }
  #sidebar h2 { font-size: 16px; margin-top: 0; }
  #sidebar label { display: block; font-size: 12px; margin: 14px 0 4px; color: #9ca3af; }
  #sidebar input { width: 100%; box-sizing: border-box; background: #111827; color: #e5e7eb; border: 1px solid #374151; border-radius: 4px; padding: 6px; }
  #sidebar output { font-size: 12px; color: #9ca3af; }
  #main { flex: 1; padding: 20px; box-sizing: border-box; }
  #error { color: #f87171; font-size: 13px; min-height: 18px; margin: 8px 0; }
  table { border-collapse: collapse; font-size: 13px; margin-top: 16px; }
  th, td { border: 1px solid #374151; padding: 4px 10px; text-align: right; }
  th { background: #1f2937; }
  td.buy { color: #34d399; }
  td.sell { color: #f87171; }
</style>
</head>
<body>
<div id="sidebar">
  <h2>Configuration</h2>
  <label for="symbol">Ticker Symbol</label>
  <input id="symbol" value="{{.Symbol}}">
  <label for="start">Start Date</label>
  <input id="start" type="date" value="{{.Start}}">
  <label for="end">End Date</label>
  <input id="end" type="date" value="{{.End}}">
  <label for="short">Short SMA Window: <output id="shortOut">{{.ShortWindow}}</output></label>
  <input id="short" type="range" min="2" max="200" step="1" value="{{.ShortWindow}}">
  <label for="long">Long SMA Window: <output id="longOut">{{.LongWindow}}</output></label>
  <input id="long" type="range" min="5" max="250" step="1" value="{{.LongWindow}}">
  <div id="error"></div>
</div>
<div id="main">
  <h2 id="title">Price and Trading Signals</h2>
  <canvas id="chart" height="110"></canvas>
  <h3>Trade Log</h3>
  <table id="trades"><thead><tr><th>Date</th><th>Action</th><th>Price at Signal</th></tr></thead><tbody></tbody></table>
</div>
<script>
const inputs = ["symbol", "start", "end", "short", "long"].reduce(
  (acc, id) => (acc[id] = document.getElementById(id), acc), {});
const errorBox = document.getElementById("error");
let chart = null;

const ws = new WebSocket((location.protocol === "https:" ? "wss://" : "ws://") + location.host + "/ws");
ws.onopen = request;
ws.onmessage = (ev) => {
  const msg = JSON.parse(ev.data);
  if (msg.type === "error") { errorBox.textContent = msg.error; return; }
  errorBox.textContent = "";
  render(msg.result);
};

function request() {
  const short = parseInt(inputs.short.value, 10);
  const long = parseInt(inputs.long.value, 10);
  document.getElementById("shortOut").textContent = short;
  document.getElementById("longOut").textContent = long;
  if (long <= short) {
    errorBox.textContent = "Long window must be greater than the short window.";
    return;
  }
  if (ws.readyState !== WebSocket.OPEN) return;
  ws.send(JSON.stringify({
    symbol: inputs.symbol.value.toUpperCase(),
    start: inputs.start.value,
    end: inputs.end.value,
    short: short,
    long: long,
  }));
}
Object.values(inputs).forEach((el) => el.addEventListener("change", request));
inputs.short.addEventListener("input", request);
inputs.long.addEventListener("input", request);

function render(result) {
  const labels = result.points.map((p) => p.timestamp.slice(0, 10));
  const price = result.points.map((p) => p.price);
  const shortMA = result.points.map((p) => p.short_ma);
  const longMA = result.points.map((p) => p.long_ma);
  const buys = result.points.map((p) => (p.action === "buy" ? p.price : null));
  const sells = result.points.map((p) => (p.action === "sell" ? p.price : null));

  document.getElementById("title").textContent =
    result.symbol + " Trading Signals (SMA " + result.short_window + "/" + result.long_window + ")";

  const datasets = [
    { label: "Close Price", data: price, borderColor: "skyblue", pointRadius: 0, borderWidth: 1.5 },
    { label: "SMA " + result.short_window, data: shortMA, borderColor: "orange", pointRadius: 0, borderWidth: 1.5 },
    { label: "SMA " + result.long_window, data: longMA, borderColor: "mediumpurple", pointRadius: 0, borderWidth: 1.5 },
    { label: "Buy Signal", data: buys, showLine: false, pointStyle: "triangle", pointRadius: 8, borderColor: "#065f46", backgroundColor: "#34d399" },
    { label: "Sell Signal", data: sells, showLine: false, pointStyle: "triangle", pointRotation: 180, pointRadius: 8, borderColor: "#7f1d1d", backgroundColor: "#f87171" },
  ];

  if (chart) {
    chart.data.labels = labels;
    chart.data.datasets.forEach((ds, i) => { ds.data = datasets[i].data; ds.label = datasets[i].label; });
    chart.update("none");
  } else {
    chart = new Chart(document.getElementById("chart"), {
      type: "line",
      data: { labels: labels, datasets: datasets },
      options: {
        animation: false,
        scales: {
          x: { ticks: { color: "#9ca3af", maxTicksLimit: 12 }, grid: { color: "#1f2937" } },
          y: { ticks: { color: "#9ca3af" }, grid: { color: "#1f2937" } },
        },
        plugins: { legend: { labels: { color: "#e5e7eb" } } },
      },
    });
  }

  const body = document.querySelector("#trades tbody");
  body.innerHTML = "";
  result.points.filter((p) => p.action === "buy" || p.action === "sell").forEach((p) => {
    const row = body.insertRow();
    row.insertCell().textContent = p.timestamp.slice(0, 10);
    const action = row.insertCell();
    action.textContent = p.action.toUpperCase();
    action.className = p.action;
    row.insertCell().textContent = p.price.toFixed(2);
  });
}
</script>
</body>
</html>
`
