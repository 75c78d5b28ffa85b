package demo

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// DashboardHandler serves the single page that drives the simulated decision
// services. The page only renders results; all decisions come from the API.
type DashboardHandler struct{}

func NewDashboardHandler() *DashboardHandler {
	return &DashboardHandler{}
}

func (h *DashboardHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.HandleDashboard)
	return r
}

func (h *DashboardHandler) HandleDashboard(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(dashboardHTML))
}

const dashboardHTML = `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8">
  <meta name="viewport" content="width=device-width, initial-scale=1.0">
  <title>No-show decision demo</title>
  <style>
    * { margin: 0; padding: 0; box-sizing: border-box; }

    :root {
      --primary: #4f46e5;
      --secondary-color: #6b7280;
      --text: #1f2937;
      --border: #e5e7eb;
      --bg: #f9fafb;
      --white: #ffffff;
      --success: #10b981;
      --warning: #f59e0b;
      --danger: #ef4444;
    }

    body {
      font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, 'Helvetica Neue', Arial, sans-serif;
      background: var(--bg);
      color: var(--text);
      line-height: 1.5;
    }

    .header {
      background: linear-gradient(135deg, #4f46e5 0%, #7c3aed 100%);
      color: var(--white);
      padding: 16px 24px;
      font-weight: 600;
    }

    main { display: grid; grid-template-columns: 1fr 1fr; gap: 24px; padding: 24px; }
    @media (max-width: 800px) { main { grid-template-columns: 1fr; } }

    .card { background: var(--white); border: 1px solid var(--border); border-radius: 12px; padding: 20px; }
    .card h2 { font-size: 1.1rem; margin-bottom: 12px; }

    label { display: block; font-size: 0.85rem; color: var(--secondary-color); margin-top: 8px; }
    input { width: 100%; padding: 8px; border: 1px solid var(--border); border-radius: 6px; }
    button {
      margin-top: 12px; padding: 10px 16px; border: 0; border-radius: 8px;
      background: var(--primary); color: var(--white); font-weight: 600; cursor: pointer;
    }
    button:disabled { opacity: 0.5; cursor: not-allowed; }

    .loader { display: none; margin-top: 12px; color: var(--secondary-color); }
    .error { color: var(--danger); }

    #reminder-feed { list-style: none; margin-top: 12px; }
    #reminder-feed li { display: flex; justify-content: space-between; padding: 8px 0; border-bottom: 1px solid var(--border); }

    .tag { padding: 2px 10px; border-radius: 999px; font-size: 0.75rem; font-weight: 700; color: var(--white); }
    .tag-sms { background: var(--primary); }
    .tag-call { background: var(--danger); }
    .tag-none { background: var(--secondary-color); }

    .stats { display: flex; gap: 24px; margin-top: 12px; }
    .stat span { display: block; font-size: 1.5rem; font-weight: 700; }
    #overbooking-results { display: none; margin-top: 12px; }
    .overbook-high, .high { color: var(--danger); }
    .overbook-mid { color: var(--warning); }
    .overbook-low { color: var(--success); }
  </style>
</head>
<body>
  <div class="header">Appointment no-show decisions (simulated)</div>
  <main>
    <section class="card">
      <h2>Reminder channel</h2>
      <form id="reminder-form">
        <label for="noshow-rate">Historical no-show rate (0-1)</label>
        <input id="noshow-rate" type="number" min="0" max="1" step="0.01" value="0.2">
        <label for="lead-time">Lead time (days)</label>
        <input id="lead-time" type="number" min="0" step="1" value="10">
        <button id="decide-btn" type="submit">Decide</button>
      </form>
      <div id="decide-result"></div>

      <button id="start-feed-btn" type="button">Start live feed</button>
      <div class="loader" id="reminder-loader">Starting feed...</div>
      <ul id="reminder-feed"></ul>
    </section>

    <section class="card">
      <h2>Daily overbooking</h2>
      <button id="overbook-btn" type="button">Recommend overbooking</button>
      <div class="loader" id="overbook-loader">Calculating...</div>
      <div id="overbooking-results">
        <div class="stats">
          <div class="stat">Expected attendance<span id="stat-load">-</span></div>
          <div class="stat">Attendance std-dev<span id="stat-risk">-</span></div>
        </div>
        <div id="overbook-recommendation"></div>
      </div>
    </section>
  </main>

  <script>
    const sessionId = (crypto.randomUUID ? crypto.randomUUID() : String(Date.now())).replace(/[^a-zA-Z0-9-]/g, '');

    function el(id) { return document.getElementById(id); }
    function show(node, visible) { node.style.display = visible ? 'block' : 'none'; }
    function text(node, value) { node.textContent = value; }

    async function api(path, body) {
      const resp = await fetch(path, {
        method: 'POST',
        headers: { 'Content-Type': 'application/json', 'X-Session-Id': sessionId },
        body: body ? JSON.stringify(body) : null,
      });
      const data = await resp.json();
      if (!resp.ok) {
        const err = new Error(data.error || ('request failed: ' + resp.status));
        err.kind = data.kind;
        throw err;
      }
      return data;
    }

    function reminderItem(d) {
      const li = document.createElement('li');
      const who = document.createElement('span');
      text(who, 'Patient ' + (d.patient_id || '-') + ' (Risk: ' + (d.base_no_show_prob * 100).toFixed(0) +
        '% -> ' + (d.final_no_show_prob * 100).toFixed(0) + '%)');
      const tag = document.createElement('span');
      tag.className = 'tag ' + d.action_class;
      text(tag, d.best_action.toUpperCase());
      li.append(who, tag);
      return li;
    }

    el('reminder-form').addEventListener('submit', async (ev) => {
      ev.preventDefault();
      const out = el('decide-result');
      el('decide-btn').disabled = true;
      out.replaceChildren();
      try {
        const d = await api('/api/reminders/decide', {
          historical_no_show_rate: parseFloat(el('noshow-rate').value),
          lead_time_days: parseInt(el('lead-time').value, 10),
        });
        out.append(reminderItem(d));
      } catch (err) {
        if (err.kind === 'superseded') return;
        const p = document.createElement('p');
        p.className = 'error';
        text(p, 'Error: ' + err.message);
        out.append(p);
      } finally {
        el('decide-btn').disabled = false;
      }
    });

    el('start-feed-btn').addEventListener('click', () => {
      const btn = el('start-feed-btn');
      const feed = el('reminder-feed');
      btn.disabled = true;
      feed.replaceChildren();
      show(el('reminder-loader'), true);

      const proto = location.protocol === 'https:' ? 'wss://' : 'ws://';
      const ws = new WebSocket(proto + location.host + '/api/reminders/feed?session=' + encodeURIComponent(sessionId));
      ws.onmessage = (msg) => {
        const m = JSON.parse(msg.data);
        show(el('reminder-loader'), false);
        if (m.type === 'decision') {
          feed.prepend(reminderItem(m.decision));
        } else if (m.type === 'error') {
          const li = document.createElement('li');
          li.className = 'error';
          text(li, 'Error: ' + m.error);
          feed.prepend(li);
        }
      };
      ws.onclose = () => {
        show(el('reminder-loader'), false);
        btn.disabled = false;
      };
    });

    el('overbook-btn').addEventListener('click', async () => {
      const btn = el('overbook-btn');
      const rec = el('overbook-recommendation');
      show(el('overbook-loader'), true);
      show(el('overbooking-results'), false);
      btn.disabled = true;
      try {
        const d = await api('/api/overbooking/recommendation');
        text(el('stat-load'), d.expected_attendance_proxy.toFixed(1));
        text(el('stat-risk'), d.attendance_std_dev_proxy.toFixed(1));
        const h = document.createElement('h2');
        h.className = d.level_class;
        text(h, 'Book ' + d.appointments_to_book + ' of ' + d.available_slots + ' slots (' + d.chosen_level + ' overbook)');
        rec.replaceChildren(h);
      } catch (err) {
        const h = document.createElement('h2');
        h.className = 'error';
        text(h, 'Error: ' + err.message);
        rec.replaceChildren(h);
      } finally {
        show(el('overbook-loader'), false);
        show(el('overbooking-results'), true);
        btn.disabled = false;
      }
    });
  </script>
</body>
</html>
`
