package dialog

import "html/template"

const popupTemplateName = "popup"

var popupTemplate = template.Must(template.New(popupTemplateName).Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>Dialog</title>
<style>
body { font-family: sans-serif; margin: 0; }
.dialog { width: {{.Width}}vw; height: {{.Height}}vh; margin: 5vh auto; padding: 1em; box-sizing: border-box; border: 1px solid #888; }
</style>
</head>
<body>
<div class="dialog">
<p>Please enter your name:</p>
<input id="name-box" type="text" autofocus>
<button id="ok-button">OK</button>
<button id="cancel-button">Cancel</button>
<p id="status"></p>
</div>
<script>
const messageURL = {{.MessagePath}};
const closeURL = {{.ClosePath}};
function post(url, body) {
  return fetch(url, {
    method: "POST",
    headers: {"Content-Type": "application/json"},
    body: JSON.stringify(body || {})
  });
}
function done(text) {
  document.getElementById("status").textContent = text;
  window.close();
}
document.getElementById("ok-button").onclick = function () {
  const message = document.getElementById("name-box").value;
  post(messageURL, {message: message}).then(function (r) {
    done(r.ok ? "Sent." : "Dialog is no longer open.");
  });
};
document.getElementById("cancel-button").onclick = function () {
  post(closeURL).then(function () { done("Closed."); });
};
</script>
</body>
</html>
`))
