package notify

import (
	"bytes"
	"fmt"
	"html/template"
	"net/url"
	"time"

	dErrors "bestbosses/pkg/domain-errors"
)

// Rendered is a ready-to-send email.
type Rendered struct {
	Subject string
	HTML    string
}

var (
	confirmationTmpl = template.Must(template.New("confirmation").Parse(`
<h1>Thanks so much for registering for Best Bosses!</h1>
<p>Please click this link to confirm your registration:</p>
<a href="{{.ConfirmationLink}}" style="background: #007bff; color: white; padding: 12px 24px; text-decoration: none; border-radius: 6px; display: inline-block;">Confirm your email</a>
<p>Thanks so much!</p>
<p>-The Best Bosses Team</p>
`))

	submittedTmpl = template.Must(template.New("nomination_submitted").Parse(`
<p>Hi {{.NominatorFirstName}},</p>
<p>We've received your nomination for {{.BossName}}. Thank you for taking the time to recognize outstanding leadership through Best Bosses!</p>
<p>Our team will now review your submission to ensure it meets our publishing standards. Once it is approved, we will notify you with the live listing and full access to our directory of amazing leaders.</p>
<p>Truly appreciated,<br>The Best Bosses Team</p>
`))

	approvedNominatorTmpl = template.Must(template.New("nomination_approved_nominator").Parse(`
<p>Hi {{.NominatorFirstName}},</p>
<p>Great news: Your nomination of {{.BossName}} was approved!</p>
<p>Which means you now have full access to the Best Bosses directory: <a href="{{.DirectoryURL}}">View Directory</a></p>
<p>And to help grow the list, would you mind doing us a small but massively important favor?</p>
<p><a href="{{.ShareURL}}">Share the love on LinkedIn</a> - and help others pay it forward too! 🙌</p>
<p>Truly appreciated,<br>The Best Bosses Team</p>
`))

	approvedBossTmpl = template.Must(template.New("nomination_approved_boss").Parse(`
<p>Hi {{.BossFirstName}},</p>
<p>Congrats! You've just been named a Best Boss by {{.NominatorName}}.</p>
<p>Here's what they had to say about you:</p>
<blockquote style="border-left: 4px solid #007bff; padding-left: 16px; margin: 16px 0; font-style: italic;">"{{.Review}}"</blockquote>
<p>At BestBosses.org (the internet's only verified manager review site), we fundamentally believe the best bosses deserve to be recognized - and to get the best talent on their teams.</p>
<p>So be sure to share your award today:</p>
<div style="margin: 20px 0;">
  <p><strong>1) <a href="{{.CertificateURL}}">Download Your Certificate</a></strong></p>
  <p><strong>2) <a href="{{.ShareURL}}">Post on LinkedIn</a></strong></p>
  <p><strong>3) <a href="{{.AddToProfileURL}}">Add to LinkedIn Profile</a></strong></p>
</div>
<p>Congrats again! 🎉<br>-The Best Bosses Team</p>
`))
)

// Render produces the subject and HTML body for a message.
func Render(t Type, data map[string]string) (Rendered, error) {
	switch t {
	case TypeConfirmation:
		return render(confirmationTmpl,
			"Please confirm your Best Bosses registration",
			map[string]any{
				"ConfirmationLink": data[DataConfirmationLink],
			})

	case TypeSubmitted:
		return render(submittedTmpl,
			"Thank you for your nomination!",
			map[string]any{
				"NominatorFirstName": data[DataNominatorFirstName],
				"BossName":           data[DataBossName],
			})

	case TypeApprovedNominator:
		shareText := fmt.Sprintf("🏆 Congratulations to %s for being recognized as a Certified #BestBoss!\n\nWho's a manager who made a big difference in your career?\n\nGive 'em a little ❤️ today!", data[DataBossName])
		return render(approvedNominatorTmpl,
			fmt.Sprintf("Your nomination of %s was approved!", data[DataBossName]),
			map[string]any{
				"NominatorFirstName": data[DataNominatorFirstName],
				"BossName":           data[DataBossName],
				"DirectoryURL":       data[DataDirectoryURL],
				"ShareURL":           linkedInShareURL(shareText, data[DataBossProfileURL]),
			})

	case TypeApprovedBoss:
		shareText := fmt.Sprintf("Happy to be nominated by %s as a #BestBoss.\n\nWho's a manager who made a big difference in your career?", data[DataNominatorName])
		return render(approvedBossTmpl,
			fmt.Sprintf("%s Nominated You As a Best Boss!", data[DataNominatorName]),
			map[string]any{
				"BossFirstName":   data[DataBossFirstName],
				"NominatorName":   data[DataNominatorName],
				"Review":          data[DataReview],
				"CertificateURL":  data[DataCertificateURL],
				"ShareURL":        linkedInShareURL(shareText, data[DataBossProfileURL]),
				"AddToProfileURL": linkedInCertificationURL(data[DataBossProfileURL]),
			})

	default:
		return Rendered{}, dErrors.Newf(dErrors.CodeInvalidInput, "unknown notification type %q", t)
	}
}

func render(tmpl *template.Template, subject string, data map[string]any) (Rendered, error) {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return Rendered{}, fmt.Errorf("render %s: %w", tmpl.Name(), err)
	}
	return Rendered{Subject: subject, HTML: buf.String()}, nil
}

// linkedInShareURL builds the prefilled LinkedIn share composer link.
func linkedInShareURL(text, profileURL string) template.URL {
	u := "https://www.linkedin.com/feed/?shareActive=true&text=" + url.QueryEscape(text) +
		"&url=" + url.QueryEscape(profileURL)
	return template.URL(u)
}

// linkedInCertificationURL builds the "Add to LinkedIn Profile" deep link.
func linkedInCertificationURL(profileURL string) template.URL {
	now := time.Now()
	u := "https://www.linkedin.com/profile/add?startTask=CERTIFICATION_NAME" +
		"&name=Certified%20Best%20Boss&organizationId=99177270" +
		fmt.Sprintf("&issueYear=%d&issueMonth=%d", now.Year(), int(now.Month())) +
		"&certUrl=" + url.QueryEscape(profileURL)
	return template.URL(u)
}
