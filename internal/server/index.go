package server

// indexHTML is the minimal upload page served on GET /.
const indexHTML = `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="utf-8">
  <title>Vision Processing</title>
  <style>
    body { font-family: sans-serif; max-width: 680px; margin: 40px auto; }
    #result img { max-width: 100%; border: 1px solid #ccc; }
    pre { background: #f4f4f4; padding: 10px; overflow-x: auto; }
  </style>
</head>
<body>
  <h1>Vision Processing Microservice</h1>
  <p>Upload an image to run object detection.</p>
  <form id="upload">
    <input type="file" name="image" accept="image/*" required>
    <button type="submit">Detect</button>
  </form>
  <div id="result"></div>
  <script>
    document.getElementById('upload').addEventListener('submit', async (e) => {
      e.preventDefault();
      const data = new FormData(e.target);
      const out = document.getElementById('result');
      out.textContent = 'Processing...';
      const resp = await fetch('/detect', { method: 'POST', body: data });
      const json = await resp.json();
      if (!resp.ok) {
        out.textContent = 'Error: ' + json.error;
        return;
      }
      out.innerHTML = '<p>' + json.message + ' (' + json.count + ' objects)</p>' +
        '<img src="data:image/png;base64,' + json.image + '">' +
        '<pre>' + JSON.stringify(json.detections, null, 2) + '</pre>';
    });
  </script>
</body>
</html>
`
