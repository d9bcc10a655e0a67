// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package web

// indexHTML is the complete interactive front-end: upload an SD file,
// optionally fill in the audit fields, and render the preview returned by
// /convert. Served from memory; the dataset field is seeded with a fresh
// RUN token per page load.
const indexHTML = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>molcsv - SDF to CSV</title>
<style>
body { font-family: system-ui, sans-serif; max-width: 960px; margin: 2rem auto; padding: 0 1rem; color: #222; }
h1 { font-size: 1.4rem; }
fieldset { border: 1px solid #ccc; border-radius: 4px; margin: 1rem 0; padding: 1rem; }
label { display: block; margin: 0.5rem 0 0.15rem; font-size: 0.9rem; }
input[type=text], input[type=email], select { width: 100%; max-width: 28rem; padding: 0.3rem; }
button { margin-top: 1rem; padding: 0.5rem 1.5rem; }
table { border-collapse: collapse; margin-top: 1rem; font-size: 0.85rem; }
th, td { border: 1px solid #ddd; padding: 0.25rem 0.5rem; text-align: left; }
th { background: #f5f5f5; }
#status { margin-top: 1rem; white-space: pre-line; }
.error { color: #b00020; }
#audit-fields { display: none; }
</style>
</head>
<body>
<h1>molcsv &mdash; SDF to CSV converter</h1>
<p>Upload an SDF/SD file. Each record is converted to a canonical SMILES
row with its data items as columns; records that cannot be converted are
counted and available as a verbatim SD download.</p>

<form id="convert-form">
  <fieldset>
    <legend>Input</legend>
    <label for="sdf">SDF / SD file</label>
    <input type="file" id="sdf" name="sdf" accept=".sdf,.sd,.mol" required>
  </fieldset>

  <fieldset>
    <legend>ALCOA+ audit columns</legend>
    <label><input type="checkbox" id="alcoa" name="alcoa"> Append audit columns to every row</label>
    <div id="audit-fields">
      <label for="operator">Operator (required)</label>
      <input type="text" id="operator" name="operator">
      <label for="contact">Contact (required)</label>
      <input type="email" id="contact" name="contact">
      <label for="purpose">Purpose of processing (required)</label>
      <input type="text" id="purpose" name="purpose">
      <label for="dataset_id">Dataset identifier</label>
      <input type="text" id="dataset_id" name="dataset_id" value="{{.DatasetToken}}">
      <label for="storage_plan">Storage plan</label>
      <select id="storage_plan" name="storage_plan">
        <option>21 CFR Part 11 compliant document vault</option>
        <option>Validated data lake</option>
        <option>Regulated LIMS</option>
        <option>Local secure drive (with routine backups)</option>
      </select>
    </div>
  </fieldset>

  <button type="submit">Convert</button>
</form>

<div id="status"></div>
<div id="downloads"></div>
<div id="preview"></div>

<script>
const form = document.getElementById("convert-form");
const status = document.getElementById("status");
const downloads = document.getElementById("downloads");
const preview = document.getElementById("preview");

document.getElementById("alcoa").addEventListener("change", (e) => {
  document.getElementById("audit-fields").style.display = e.target.checked ? "block" : "none";
});

form.addEventListener("submit", async (e) => {
  e.preventDefault();
  status.textContent = "Converting...";
  status.className = "";
  downloads.textContent = "";
  preview.textContent = "";

  const resp = await fetch("/convert", { method: "POST", body: new FormData(form) });
  let body;
  try {
    body = await resp.json();
  } catch {
    status.textContent = "Unexpected server response (" + resp.status + ")";
    status.className = "error";
    return;
  }
  if (!resp.ok) {
    status.textContent = body.error || ("Request failed (" + resp.status + ")");
    status.className = "error";
    return;
  }

  const c = body.summary.counts;
  status.textContent = "Run " + body.run_id + "\n" +
    c.records_converted + " converted, " + c.records_failed + " failed (total " + c.records_total + ")";

  for (const [name, url] of Object.entries(body.downloads)) {
    const a = document.createElement("a");
    a.href = url;
    a.textContent = "Download " + name;
    a.style.marginRight = "1rem";
    downloads.appendChild(a);
  }

  if (body.preview.length > 0) {
    const table = document.createElement("table");
    const head = table.insertRow();
    for (const col of body.columns) {
      const th = document.createElement("th");
      th.textContent = col;
      head.appendChild(th);
    }
    for (const row of body.preview) {
      const tr = table.insertRow();
      for (const col of body.columns) {
        tr.insertCell().textContent = row[col] || "";
      }
    }
    preview.appendChild(table);
    if (body.preview_truncated) {
      const note = document.createElement("p");
      note.textContent = "Preview truncated; download the CSV for the full row set.";
      preview.appendChild(note);
    }
  }
});
</script>
</body>
</html>
`
