// Package email delivers exported templates as transactional messages.
//
// EmailSender is the provider abstraction. Two implementations exist:
// a Postmark client for real delivery and DevSender, which writes every
// message to a directory as HTML, optional plain text and JSON metadata.
// New picks one from Config.Driver.
//
//	sender, err := email.New(cfg)
//	if err != nil {
//		return err
//	}
//	err = sender.SendEmail(ctx, email.SendEmailParams{
//		SendTo:   "user@example.com",
//		Subject:  "Welcome",
//		BodyHTML: html,
//		BodyText: text,
//		Tag:      "welcome",
//	})
//
// Every sender validates params first and reports ErrInvalidParams joined
// with the validator's field errors. Delivery failures match
// ErrFailedToSendEmail.
package email
