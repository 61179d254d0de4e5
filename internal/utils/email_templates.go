package utils

import (
	"fmt"

	"lumiskin_back_end/internal/models"
)

// GenerateWelcomeHTML builds the registration confirmation body.
func GenerateWelcomeHTML(name string) string {
	return fmt.Sprintf(`
<!DOCTYPE html>
<html lang="en">
<head>
	<meta charset="UTF-8">
	<title>Welcome to Lumiskin</title>
</head>
<body style="font-family: Arial, sans-serif; background-color: #faf7f5; padding: 20px;">
	<div style="max-width: 600px; margin: auto; background-color: white; padding: 20px; border-radius: 10px;">
		<h2 style="color: #333;">Welcome, %s!</h2>
		<p>Your Lumiskin account has been created.</p>
		<p>Take our skin quiz to get a routine tailored to your skin type.</p>
		<p style="margin-top: 30px; color: #555;">
			With love,<br>
			<strong>The Lumiskin team</strong>
		</p>
	</div>
</body>
</html>`, name)
}

// GeneratePaymentConfirmationHTML builds the payment confirmation body.
func GeneratePaymentConfirmationHTML(order models.Order) string {
	itemsHTML := ""
	for _, item := range order.Items {
		itemsHTML += fmt.Sprintf(`
			<tr>
				<td style="padding: 8px; border: 1px solid #ddd;">%s</td>
				<td style="padding: 8px; border: 1px solid #ddd;">%d</td>
				<td style="padding: 8px; border: 1px solid #ddd;">%.2f</td>
			</tr>`, item.ProductID, item.Quantity, item.UnitPrice)
	}

	return fmt.Sprintf(`
<!DOCTYPE html>
<html lang="en">
<head>
	<meta charset="UTF-8">
	<title>Payment confirmed</title>
</head>
<body style="font-family: Arial, sans-serif; background-color: #faf7f5; padding: 20px;">
	<div style="max-width: 600px; margin: auto; background-color: white; padding: 20px; border-radius: 10px;">
		<h2 style="color: #333;">Your payment is confirmed</h2>
		<p>Order <strong>%s</strong> has been paid.</p>
		<table style="width: 100%%; border-collapse: collapse; margin: 20px 0;">
			<thead>
				<tr style="background-color: #f0f0f0;">
					<th style="padding: 8px; text-align: left; border: 1px solid #ddd;">Product</th>
					<th style="padding: 8px; text-align: left; border: 1px solid #ddd;">Quantity</th>
					<th style="padding: 8px; text-align: left; border: 1px solid #ddd;">Unit price</th>
				</tr>
			</thead>
			<tbody>
				%s
			</tbody>
			<tfoot>
				<tr>
					<td colspan="2" style="padding: 8px; text-align: right; font-weight: bold;">Total:</td>
					<td style="padding: 8px; font-weight: bold;">%.2f</td>
				</tr>
			</tfoot>
		</table>
		<p style="margin-top: 30px; color: #555;">
			With love,<br>
			<strong>The Lumiskin team</strong>
		</p>
	</div>
</body>
</html>`, order.ID, itemsHTML, order.TotalAmount)
}

// GenerateRefundConfirmationHTML builds the refund confirmation body.
func GenerateRefundConfirmationHTML(order models.Order, amount float64) string {
	return fmt.Sprintf(`
<!DOCTYPE html>
<html lang="en">
<head>
	<meta charset="UTF-8">
	<title>Order canceled</title>
</head>
<body style="font-family: Arial, sans-serif; background-color: #faf7f5; padding: 20px;">
	<div style="max-width: 600px; margin: auto; background-color: white; padding: 20px; border-radius: 10px;">
		<h2 style="color: #333;">Your order has been canceled</h2>
		<p>Order <strong>%s</strong> (total %.2f) was canceled.</p>
		<p>A refund of <strong>%.2f</strong> is on its way to you.</p>
		<p style="margin-top: 30px; color: #555;">
			With love,<br>
			<strong>The Lumiskin team</strong>
		</p>
	</div>
</body>
</html>`, order.ID, order.TotalAmount, amount)
}

// GeneratePasswordResetHTML builds the password reset body.
func GeneratePasswordResetHTML(resetLink string) string {
	return fmt.Sprintf(`
<!DOCTYPE html>
<html lang="en">
<head>
	<meta charset="UTF-8">
	<title>Reset your password</title>
</head>
<body style="font-family: Arial, sans-serif; background-color: #faf7f5; padding: 20px;">
	<div style="max-width: 600px; margin: auto; background-color: white; padding: 20px; border-radius: 10px;">
		<h2 style="color: #333;">Reset your password</h2>
		<p>Someone asked to reset the password for this account. If that was you, click below; the link is valid for 30 minutes.</p>
		<p style="text-align: center; margin: 30px 0;">
			<a href="%s" style="background-color: #c98d77; color: white; padding: 12px 24px; border-radius: 6px; text-decoration: none;">Reset password</a>
		</p>
		<p style="color: #888;">If it wasn't you, you can ignore this email.</p>
	</div>
</body>
</html>`, resetLink)
}
