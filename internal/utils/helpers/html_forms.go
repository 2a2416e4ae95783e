package helpers

import (
	"fmt"
	"html"
	"strings"
)

// BuildContactMessageHTML — письмо администратору о сообщении из формы обратной связи.
// Все пользовательские поля экранируются.
func BuildContactMessageHTML(name, email, message, adminLink string) string {
	body := strings.ReplaceAll(html.EscapeString(message), "\n", "<br>")

	button := ""
	if adminLink != "" {
		button = fmt.Sprintf(`
                <p>
                  <a href="%s" style="display:inline-block;padding:12px 24px;background:#2d74da;color:#fff;text-decoration:none;border-radius:5px;font-weight:bold;">
                    Открыть в админке
                  </a>
                </p>`, html.EscapeString(adminLink))
	}

	return fmt.Sprintf(`
<html>
  <body style="font-family:Arial,sans-serif; background:#f9f9f9;">
    <table width="100%%" cellpadding="0" cellspacing="0" bgcolor="#f9f9f9">
      <tr>
        <td align="center" style="padding:32px 0;">
          <table width="520" bgcolor="#fff" cellpadding="24" cellspacing="0" style="border-radius:8px; box-shadow:0 1px 6px #eee;">
            <tr>
              <td>
                <h2 style="color:#2d74da; margin-top:0;">Новое сообщение с сайта</h2>
                <p style="font-size:14px; color:#666;"><b>%s</b> &lt;%s&gt;</p>
                <div style="font-size:16px; color:#222;">%s</div>%s
                <hr style="margin:32px 0 16px 0; border:0; border-top:1px solid #eee;">
                <div style="font-size:12px; color:#999;">Письмо сгенерировано автоматически. Ответьте отправителю напрямую.</div>
              </td>
            </tr>
          </table>
        </td>
      </tr>
    </table>
  </body>
</html>
`, html.EscapeString(name), html.EscapeString(email), body, button)
}
