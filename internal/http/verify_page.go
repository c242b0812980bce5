package http

import "html/template"

type verifyPageData struct {
	SessionToken string
	Scheme       string
}

// verifyPageTmpl es la página de hand-off que abre el segundo dispositivo:
// un botón que dispara el deep link de vuelta a la app con el session token.
var verifyPageTmpl = template.Must(template.New("verify").Parse(`<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>Device Verification</title>
    <style>
        body {
            font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Arial, sans-serif;
            margin: 0;
            padding: 20px;
            background: linear-gradient(135deg, #667eea 0%, #764ba2 100%);
            min-height: 100vh;
            display: flex;
            align-items: center;
            justify-content: center;
        }
        .container {
            background: white;
            padding: 40px;
            border-radius: 16px;
            box-shadow: 0 8px 32px rgba(0,0,0,0.2);
            text-align: center;
            max-width: 400px;
            width: 100%;
        }
        .icon { font-size: 48px; margin-bottom: 20px; }
        h1 { color: #333; margin-bottom: 10px; font-size: 24px; }
        p { color: #666; margin-bottom: 30px; line-height: 1.5; }
        .verify-btn {
            background: linear-gradient(135deg, #667eea 0%, #764ba2 100%);
            color: white;
            border: none;
            padding: 16px 32px;
            font-size: 16px;
            border-radius: 8px;
            cursor: pointer;
            font-weight: 600;
            width: 100%;
            margin-bottom: 15px;
        }
        .cancel-btn {
            background: transparent;
            color: #666;
            border: 1px solid #ddd;
            padding: 12px 32px;
            font-size: 14px;
            border-radius: 8px;
            cursor: pointer;
            width: 100%;
        }
    </style>
</head>
<body>
    <div class="container">
        <div class="icon">&#128272;</div>
        <h1>Device Verification</h1>
        <p>Complete your device verification by returning to the app.</p>
        <button class="verify-btn" onclick="openApp()">Return to App</button>
        <button class="cancel-btn" onclick="window.close()">Cancel</button>
    </div>
    <script>
        function openApp() {
            const deeplink = '{{.Scheme}}://readyForVerify?sessionToken={{.SessionToken}}';
            window.location.href = deeplink;
            setTimeout(function() { window.close(); }, 3000);
        }
    </script>
</body>
</html>
`))
