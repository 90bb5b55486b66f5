package services

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"time"

	"github.com/anjiri1684/skill_tutor/database"
	"github.com/anjiri1684/skill_tutor/logger"
	"github.com/anjiri1684/skill_tutor/models"
	"github.com/anjiri1684/skill_tutor/notifications"
	"github.com/anjiri1684/skill_tutor/websocket"
	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/google/uuid"
)

var certificateTemplate = template.Must(template.New("certificate").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<style>
  body { font-family: Georgia, serif; text-align: center; padding: 60px; border: 12px double #2c3e50; }
  h1 { font-size: 42px; margin-bottom: 0; }
  .name { font-size: 32px; margin: 30px 0; border-bottom: 1px solid #999; display: inline-block; padding: 0 40px; }
  .meta { color: #555; margin-top: 40px; }
</style>
</head>
<body>
  <h1>Certificate of Completion</h1>
  <p>This certifies that</p>
  <div class="name">{{.LearnerName}}</div>
  <p>has successfully completed <strong>{{.CourseTitle}}</strong></p>
  <p>taught by {{.TutorName}}{{if .Hours}} ({{printf "%.1f" .Hours}} hours){{end}}</p>
  <p class="meta">Completed on {{.CompletionDate}}</p>
</body>
</html>`))

type certificateData struct {
	LearnerName    string
	TutorName      string
	CourseTitle    string
	Hours          float64
	CompletionDate string
}

// Renderers, swappable in tests.
var (
	renderPDF         = generatePDFFromHTML
	uploadCertificate = func(pdf []byte, publicID string) (string, error) {
		return UploadFile(bytes.NewReader(pdf), uploader.UploadParams{
			PublicID:     publicID,
			Folder:       FolderCertificates,
			ResourceType: "raw",
		})
	}
)

func renderCertificateHTML(data certificateData) (string, error) {
	var out bytes.Buffer
	if err := certificateTemplate.Execute(&out, data); err != nil {
		return "", err
	}
	return out.String(), nil
}

func generatePDFFromHTML(htmlContent string) ([]byte, error) {
	ctx, cancel := chromedp.NewContext(context.Background())
	defer cancel()
	ctx, cancel = context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	var pdfBuffer []byte
	err := chromedp.Run(ctx,
		chromedp.Navigate("about:blank"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			frameTree, err := page.GetFrameTree().Do(ctx)
			if err != nil {
				return err
			}
			return page.SetDocumentContent(frameTree.Frame.ID, htmlContent).Do(ctx)
		}),
		chromedp.ActionFunc(func(ctx context.Context) error {
			pdf, _, err := page.PrintToPDF().WithPrintBackground(true).WithLandscape(true).Do(ctx)
			if err != nil {
				return err
			}
			pdfBuffer = pdf
			return nil
		}),
	)
	if err != nil {
		return nil, err
	}
	return pdfBuffer, nil
}

// GenerateCertificate renders, uploads and records the completion certificate
// for a completed enrollment. It is meant to run in its own goroutine.
func GenerateCertificate(enrollmentID uuid.UUID) {
	if err := generateCertificate(enrollmentID); err != nil {
		logger.Log.Errorw("Certificate generation failed", "enrollment_id", enrollmentID, "error", err)
	}
}

func generateCertificate(enrollmentID uuid.UUID) error {
	if !StorageConfigured() {
		logger.Log.Debugw("Storage not configured, skipping certificate", "enrollment_id", enrollmentID)
		return nil
	}

	var e models.Enrollment
	if err := database.DB.Preload("Learner").Preload("Course.Tutor").First(&e, "id = ?", enrollmentID).Error; err != nil {
		return err
	}
	if e.Status != models.EnrollmentCompleted {
		return fmt.Errorf("enrollment %s is %s, not completed", e.ID, e.Status)
	}
	if e.CertificateURL != nil {
		return nil
	}

	completedAt := time.Now().UTC()
	if e.CompletedAt != nil {
		completedAt = *e.CompletedAt
	}
	htmlData, err := renderCertificateHTML(certificateData{
		LearnerName:    e.Learner.FullName,
		TutorName:      e.Course.Tutor.FullName,
		CourseTitle:    e.Course.Title,
		Hours:          e.HoursCompleted,
		CompletionDate: completedAt.Format("January 2, 2006"),
	})
	if err != nil {
		return err
	}

	pdf, err := renderPDF(htmlData)
	if err != nil {
		return fmt.Errorf("rendering pdf: %w", err)
	}

	url, err := uploadCertificate(pdf, fmt.Sprintf("certificate_%s", e.ID))
	if err != nil {
		return fmt.Errorf("uploading certificate: %w", err)
	}

	if err := database.DB.Model(&models.Enrollment{}).Where("id = ?", e.ID).Update("certificate_url", url).Error; err != nil {
		return err
	}

	subject, body := notifications.CertificateEmail(e.Learner.FullName, e.Course.Title, url)
	go notifications.SendEmail(e.Learner.FullName, e.Learner.Email, subject, body)
	websocket.Notify(e.LearnerID, "enrollment.certificate_ready", map[string]interface{}{
		"enrollment_id":   e.ID,
		"certificate_url": url,
	})

	logger.Log.Infow("Certificate generated", "enrollment_id", e.ID, "url", url)
	return nil
}
